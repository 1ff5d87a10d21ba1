package team

import "fmt"

type Alliance uint8

const (
	Red Alliance = iota
	Blue
)

// Both lists alliances in the fixed step order.
var Both = [2]Alliance{Red, Blue}

func (a Alliance) String() string {
	switch a {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("alliance(%d)", uint8(a))
	}
}

func (a Alliance) Opponent() Alliance {
	if a == Red {
		return Blue
	}
	return Red
}

func Parse(s string) (Alliance, error) {
	switch s {
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	}
	return Red, fmt.Errorf("unknown alliance %q", s)
}
