// Package phase is the match clock: a fixed schedule of windows and the
// hub eligibility of each alliance within them.
package phase

import (
	"fmt"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

type Phase uint8

const (
	PreMatch Phase = iota
	Opening
	Transition
	Shift1
	Shift2
	Shift3
	Shift4
	Endgame
	Complete
)

func (p Phase) String() string {
	switch p {
	case PreMatch:
		return "pre_match"
	case Opening:
		return "opening"
	case Transition:
		return "transition"
	case Shift1, Shift2, Shift3, Shift4:
		return fmt.Sprintf("shift_%d", p.ShiftIndex())
	case Endgame:
		return "endgame"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) IsShift() bool { return p >= Shift1 && p <= Shift4 }

// ShiftIndex is 1..4 for shift phases and 0 otherwise.
func (p Phase) ShiftIndex() int {
	if !p.IsShift() {
		return 0
	}
	return int(p-Shift1) + 1
}

// Scoring reports whether hubs can be eligible at all in this phase.
func (p Phase) Scoring() bool {
	return p == Opening || p.IsShift() || p == Endgame
}

type TieBreak uint8

const (
	// TieBreakRedDefault treats red as the opening winner on a tie.
	TieBreakRedDefault TieBreak = iota
	// TieBreakCoinFlip draws the winner once from the match stream.
	TieBreakCoinFlip
)

func (t TieBreak) String() string {
	if t == TieBreakCoinFlip {
		return "coin_flip"
	}
	return "red_default"
}

func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "red_default", "red":
		return TieBreakRedDefault, nil
	case "coin_flip", "coin":
		return TieBreakCoinFlip, nil
	}
	return TieBreakRedDefault, fmt.Errorf("unknown tie break %q", s)
}

// Snapshot is the read-only clock state for one tick.
type Snapshot struct {
	Elapsed               int
	Phase                 Phase
	RedEligible           bool
	BlueEligible          bool
	TicksRemainingInPhase int
	TicksRemainingInMatch int
}

func (s Snapshot) Eligible(a team.Alliance) bool {
	if a == team.Red {
		return s.RedEligible
	}
	return s.BlueEligible
}

type window struct {
	phase      Phase
	start, end int
}

type Controller struct {
	windows []window
	total   int

	tick    int
	idx     int
	started bool

	tieBreak TieBreak
	rng      *rng.Stream

	fixed   bool
	winner  team.Alliance
	tieDraw bool
}

// New builds a controller in the pre-match state.
func New(t tuning.Tuning, tb TieBreak, r *rng.Stream) *Controller {
	c := &Controller{tieBreak: tb, rng: r}
	at := 0
	add := func(p Phase, ticks int) {
		c.windows = append(c.windows, window{phase: p, start: at, end: at + ticks})
		at += ticks
	}
	add(Opening, t.Ticks(t.Phases.Opening))
	add(Transition, t.Ticks(t.Phases.Transition))
	for i := 0; i < t.Phases.Shifts && i < 4; i++ {
		add(Shift1+Phase(i), t.Ticks(t.Phases.Shift))
	}
	add(Endgame, t.Ticks(t.Phases.Endgame))
	c.total = at
	return c
}

func (c *Controller) TotalTicks() int { return c.total }

// Tick is the index of the current tick.
func (c *Controller) Tick() int { return c.tick }

func (c *Controller) Done() bool { return c.started && c.tick >= c.total }

// Advance moves to the next tick and reports whether a phase boundary was
// crossed. Once complete it keeps returning the terminal snapshot.
func (c *Controller) Advance() (Snapshot, bool) {
	if !c.started {
		c.started = true
		c.tick = 0
		c.idx = 0
		return c.Snapshot(), true
	}
	if c.tick >= c.total {
		return c.Snapshot(), false
	}
	c.tick++
	if c.tick >= c.total {
		c.idx = len(c.windows)
		return c.Snapshot(), true
	}
	if c.tick >= c.windows[c.idx].end {
		c.idx++
		return c.Snapshot(), true
	}
	return c.Snapshot(), false
}

func (c *Controller) current() Phase {
	switch {
	case !c.started:
		return PreMatch
	case c.idx >= len(c.windows):
		return Complete
	}
	return c.windows[c.idx].phase
}

func (c *Controller) Snapshot() Snapshot {
	p := c.current()
	s := Snapshot{Elapsed: c.tick, Phase: p}
	s.RedEligible = c.eligible(p, team.Red)
	s.BlueEligible = c.eligible(p, team.Blue)
	switch p {
	case PreMatch:
		s.TicksRemainingInMatch = c.total
	case Complete:
	default:
		s.TicksRemainingInPhase = c.windows[c.idx].end - c.tick
		s.TicksRemainingInMatch = c.total - c.tick
	}
	return s
}

func (c *Controller) eligible(p Phase, a team.Alliance) bool {
	switch {
	case p == Opening || p == Endgame:
		return true
	case p.IsShift():
		winner := team.Red
		if c.fixed {
			winner = c.winner
		}
		// The opening winner sits out the odd shifts.
		odd := p.ShiftIndex()%2 == 1
		if a == winner {
			return !odd
		}
		return odd
	}
	return false
}

// SetOpeningScores fixes the shift pattern from the opening result. Only the
// first call has any effect; a coin-flip tie break draws once.
func (c *Controller) SetOpeningScores(red, blue int) team.Alliance {
	if c.fixed {
		return c.winner
	}
	c.fixed = true
	switch {
	case red > blue:
		c.winner = team.Red
	case blue > red:
		c.winner = team.Blue
	case c.tieBreak == TieBreakCoinFlip:
		c.tieDraw = true
		c.winner = team.Red
		if c.rng.Bernoulli(0.5) {
			c.winner = team.Blue
		}
	default:
		c.winner = team.Red
	}
	return c.winner
}

// OpeningWinner reports the fixed opening winner and whether the pattern has
// been fixed yet.
func (c *Controller) OpeningWinner() (team.Alliance, bool) { return c.winner, c.fixed }

// TieBreakDrawn reports whether the opening was tied and settled by a draw.
func (c *Controller) TieBreakDrawn() bool { return c.tieDraw }

// NextEligibleIn is 0 if a is eligible now, otherwise the ticks until its
// next eligible window starts, or -1 if none remains.
func (c *Controller) NextEligibleIn(a team.Alliance) int {
	if c.eligible(c.current(), a) {
		return 0
	}
	start := c.idx + 1
	if !c.started {
		start = 0
	}
	for i := start; i < len(c.windows); i++ {
		if c.eligible(c.windows[i].phase, a) {
			return c.windows[i].start - c.tick
		}
	}
	return -1
}
