package match

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

// towers tracks climb positions for both alliances over the flat slot table.
// An agent may only climb its own alliance's tower.
type towers struct {
	limit int
	on    []bool
	count [2]int
}

func newTowers(limit, slots int) *towers {
	return &towers{limit: limit, on: make([]bool, slots)}
}

func allianceOf(slot int) team.Alliance { return team.Alliance(slot / alliance.Size) }

func (t *towers) Claim(slot int) bool {
	if t.on[slot] {
		return true
	}
	a := allianceOf(slot)
	if t.count[a] >= t.limit {
		return false
	}
	t.on[slot] = true
	t.count[a]++
	return true
}

func (t *towers) Release(slot int) {
	if !t.on[slot] {
		return
	}
	t.on[slot] = false
	t.count[allianceOf(slot)]--
}

func (t *towers) On(slot int) bool { return t.on[slot] }

func (t *towers) check(tick int) error {
	for _, a := range team.Both {
		n := 0
		for slot, on := range t.on {
			if on && allianceOf(slot) == a {
				n++
			}
		}
		if n != t.count[a] {
			return simerr.Invariant(protocol.ErrInvTower, tick, "%s tower count %d, occupancy %d", a, t.count[a], n)
		}
		if n > t.limit {
			return simerr.Invariant(protocol.ErrInvTower, tick, "%s tower holds %d, cap %d", a, n, t.limit)
		}
	}
	return nil
}
