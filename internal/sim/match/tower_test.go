package match

import (
	"testing"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

func TestTowers_CapPerAlliance(t *testing.T) {
	tw := newTowers(1, 6)
	if !tw.Claim(0) {
		t.Fatalf("first red claim refused")
	}
	if !tw.Claim(0) {
		t.Fatalf("repeat claim by the same agent refused")
	}
	if tw.Claim(1) {
		t.Fatalf("second red climber admitted over cap")
	}
	if !tw.Claim(3) {
		t.Fatalf("blue claim blocked by red occupancy")
	}
	tw.Release(0)
	tw.Release(0)
	if !tw.Claim(1) {
		t.Fatalf("claim after release refused")
	}
	if err := tw.check(5); err != nil {
		t.Fatalf("check: %v", err)
	}
	tw.count[team.Red] = 0
	if err := tw.check(5); !simerr.IsInvariant(err) {
		t.Fatalf("want invariant error for a corrupted count, got %v", err)
	}
}

func TestFinalize_BonusesAndRP(t *testing.T) {
	tun := tuning.Defaults()
	rk := tun.Ranking
	r := Result{}
	r.Alliances[team.Red] = AllianceResult{Score: 200, FuelScored: rk.SuperchargedFuel, TowerPoints: rk.TraversalTower}
	r.Alliances[team.Blue] = AllianceResult{Score: 120, FuelScored: rk.EnergizedFuel - 1, TowerPoints: rk.TraversalTower - 1}
	r.finalize(tun)
	red, blue := r.Red(), r.Blue()
	if r.Winner != WinnerRed {
		t.Fatalf("winner %s", r.Winner)
	}
	if !red.Energized || !red.Supercharged || !red.Traversal || red.RP != rk.MaxRP() {
		t.Fatalf("red %+v", red)
	}
	if blue.Energized || blue.Supercharged || blue.Traversal || blue.RP != 0 {
		t.Fatalf("blue %+v", blue)
	}

	tie := Result{}
	tie.Alliances[team.Red].Score = 40
	tie.Alliances[team.Blue].Score = 40
	tie.finalize(tun)
	if tie.Winner != WinnerTie || tie.Red().RP != rk.Tie || tie.Blue().RP != rk.Tie {
		t.Fatalf("tie %+v", tie)
	}
	if tie.Margin() != 0 {
		t.Fatalf("margin %d", tie.Margin())
	}
}
