package phase

import (
	"testing"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// run drives a controller to completion and returns one snapshot per tick.
func run(t *testing.T, c *Controller, red, blue int) []Snapshot {
	t.Helper()
	var out []Snapshot
	for {
		s, boundary := c.Advance()
		if s.Phase == Complete {
			if !boundary {
				t.Fatalf("completion must be a boundary")
			}
			return out
		}
		if boundary && s.Phase == Transition {
			c.SetOpeningScores(red, blue)
		}
		out = append(out, s)
	}
}

func TestSchedule_DefaultLayout(t *testing.T) {
	c := New(tuning.Defaults(), TieBreakRedDefault, rng.New(1))
	if s := c.Snapshot(); s.Phase != PreMatch || s.TicksRemainingInMatch != 320 {
		t.Fatalf("pre-match snapshot: %+v", s)
	}
	snaps := run(t, c, 10, 4)
	if len(snaps) != 320 {
		t.Fatalf("ticks = %d, want 320", len(snaps))
	}
	counts := map[Phase]int{}
	for i, s := range snaps {
		if s.Elapsed != i {
			t.Fatalf("elapsed %d at %d", s.Elapsed, i)
		}
		if s.TicksRemainingInMatch != 320-i {
			t.Fatalf("remaining in match %d at %d", s.TicksRemainingInMatch, i)
		}
		counts[s.Phase]++
	}
	want := map[Phase]int{Opening: 40, Transition: 20, Shift1: 50, Shift2: 50, Shift3: 50, Shift4: 50, Endgame: 60}
	for p, n := range want {
		if counts[p] != n {
			t.Fatalf("%s: %d ticks, want %d", p, counts[p], n)
		}
	}
	if snaps[40].TicksRemainingInPhase != 20 || snaps[59].TicksRemainingInPhase != 1 {
		t.Fatalf("transition remaining: %d, %d", snaps[40].TicksRemainingInPhase, snaps[59].TicksRemainingInPhase)
	}

	// Terminal state is sticky.
	s, boundary := c.Advance()
	if s.Phase != Complete || boundary || !c.Done() {
		t.Fatalf("after completion: %+v boundary=%v", s, boundary)
	}
}

func TestEligibility_Pattern(t *testing.T) {
	for _, tc := range []struct {
		red, blue int
		winner    team.Alliance
	}{
		{10, 4, team.Red},
		{3, 9, team.Blue},
		{5, 5, team.Red},
	} {
		c := New(tuning.Defaults(), TieBreakRedDefault, rng.New(1))
		snaps := run(t, c, tc.red, tc.blue)
		w, fixed := c.OpeningWinner()
		if !fixed || w != tc.winner {
			t.Fatalf("%d-%d: winner %v fixed=%v", tc.red, tc.blue, w, fixed)
		}
		loser := tc.winner.Opponent()
		for _, s := range snaps {
			switch {
			case s.Phase == Opening || s.Phase == Endgame:
				if !s.RedEligible || !s.BlueEligible {
					t.Fatalf("%s should be open to both", s.Phase)
				}
			case s.Phase == Transition:
				if s.RedEligible || s.BlueEligible {
					t.Fatalf("transition should be closed")
				}
			case s.Phase.IsShift():
				odd := s.Phase.ShiftIndex()%2 == 1
				if s.Eligible(tc.winner) == odd || s.Eligible(loser) != odd {
					t.Fatalf("%s: winner=%v eligible red=%v blue=%v", s.Phase, tc.winner, s.RedEligible, s.BlueEligible)
				}
				if s.RedEligible == s.BlueEligible {
					t.Fatalf("%s: exactly one hub should be eligible", s.Phase)
				}
			}
		}
		if c.TieBreakDrawn() {
			t.Fatalf("red default never draws")
		}
	}
}

func TestSetOpeningScores_CoinFlipDrawsOnce(t *testing.T) {
	var reds, blues int
	for seed := int64(0); seed < 64; seed++ {
		c := New(tuning.Defaults(), TieBreakCoinFlip, rng.New(seed))
		w := c.SetOpeningScores(7, 7)
		if !c.TieBreakDrawn() {
			t.Fatalf("seed %d: tie not drawn", seed)
		}
		for i := 0; i < 5; i++ {
			if again := c.SetOpeningScores(0, 50); again != w {
				t.Fatalf("seed %d: winner changed after fix", seed)
			}
		}
		if w == team.Red {
			reds++
		} else {
			blues++
		}
	}
	if reds == 0 || blues == 0 {
		t.Fatalf("coin flip one-sided: red=%d blue=%d", reds, blues)
	}
}

func TestNextEligibleIn(t *testing.T) {
	c := New(tuning.Defaults(), TieBreakRedDefault, rng.New(1))
	c.Advance()
	if got := c.NextEligibleIn(team.Red); got != 0 {
		t.Fatalf("opening: %d", got)
	}
	for c.Tick() < 40 {
		c.Advance()
	}
	c.SetOpeningScores(10, 0)
	// Tick 40 starts the transition; red won, so blue opens shift 1 at tick 60
	// and red waits for shift 2 at tick 110.
	if got := c.NextEligibleIn(team.Blue); got != 20 {
		t.Fatalf("blue next: %d", got)
	}
	if got := c.NextEligibleIn(team.Red); got != 70 {
		t.Fatalf("red next: %d", got)
	}
	for c.Tick() < 320 {
		c.Advance()
	}
	if got := c.NextEligibleIn(team.Red); got != -1 {
		t.Fatalf("after completion: %d", got)
	}
}

func TestPhaseNames(t *testing.T) {
	names := map[Phase]string{PreMatch: "pre_match", Shift3: "shift_3", Endgame: "endgame", Complete: "complete"}
	for p, want := range names {
		if p.String() != want {
			t.Fatalf("%d: %q want %q", p, p.String(), want)
		}
	}
	if _, err := ParseTieBreak("dice"); err == nil {
		t.Fatalf("unknown tie break accepted")
	}
}
