package tuning

import (
	"fmt"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
)

func (t Tuning) Validate() error {
	bad := func(field, format string, args ...any) error {
		return simerr.Config(protocol.ErrConfigTuning, field, format, args...)
	}

	if t.TickSeconds <= 0 {
		return bad("tick_seconds", "must be > 0")
	}
	for name, s := range map[string]float64{
		"phases.opening":    t.Phases.Opening,
		"phases.transition": t.Phases.Transition,
		"phases.shift":      t.Phases.Shift,
		"phases.endgame":    t.Phases.Endgame,
	} {
		if t.Ticks(s) < 1 {
			return bad(name, "must last at least one tick, got %vs", s)
		}
	}
	if t.Phases.Shifts < 1 || t.Phases.Shifts > 4 {
		return bad("phases.shifts", "must be in 1..4, got %d", t.Phases.Shifts)
	}

	f := t.Field
	if f.NeutralFuel < 0 || f.FeedStationFuel < 0 || f.PreloadPerAlliance < 0 {
		return bad("field", "fuel counts must be >= 0")
	}
	if sum := f.NeutralFuel + 2*f.FeedStationFuel + 2*f.PreloadPerAlliance; sum != f.TotalFuel {
		return bad("field.total_fuel", "%d does not match neutral + stations + preload = %d", f.TotalFuel, sum)
	}
	if f.TowerCapacity < 1 {
		return bad("field.tower_capacity", "must be >= 1")
	}
	if f.PreloadMaxPerAgent < 0 {
		return bad("field.preload_max_per_agent", "must be >= 0")
	}

	probs := map[string]float64{
		"human_player.throw_accuracy":      t.HumanPlayer.ThrowAccuracy,
		"failures.turret_stuck":            t.Failures.TurretStuck,
		"failures.multishot_degrade":       t.Failures.MultishotDegrade,
		"failures.basic_degrade":           t.Failures.BasicDegrade,
		"failures.shooter_break":           t.Failures.ShooterBreak,
		"failures.degraded_intake_success": t.Failures.DegradedIntakeMax,
		"jams.intake_jam_rate":             t.Jams.IntakeJamRate,
		"push.scatter":                     t.Push.Scatter,
		"defense.neutral.foul":             t.Defense.Neutral.Foul,
		"defense.neutral.tech_foul":        t.Defense.Neutral.TechFoul,
		"defense.opponent_zone.foul":       t.Defense.OpponentZone.Foul,
		"defense.opponent_zone.tech_foul":  t.Defense.OpponentZone.TechFoul,
		"defense.tower.foul":               t.Defense.Tower.Foul,
		"defense.tower.tech_foul":          t.Defense.Tower.TechFoul,
		"flight.jitter":                    t.Flight.Jitter,
		"congestion.decay":                 t.Congestion.Decay,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return bad(name, "must be in [0,1], got %v", p)
		}
	}
	for name, x := range t.Indexers {
		if x.JamRate < 0 || x.JamRate > 1 || x.Rate < 0 {
			return bad("indexers."+name, "invalid rate or jam rate")
		}
	}
	for name, q := range t.Intakes {
		if q.SuccessMin < 0 || q.SuccessMax > 1 || q.SuccessMin > q.SuccessMax {
			return bad("intake_quality."+name, "invalid success range [%v,%v]", q.SuccessMin, q.SuccessMax)
		}
	}
	for _, tier := range t.IntakeTiers {
		if _, ok := t.Intakes[tier]; !ok {
			return bad("intake_tiers", "unknown intake quality %q", tier)
		}
	}
	if _, ok := t.Shooters["none"]; !ok {
		return bad("shooters", `missing "none" entry`)
	}
	if _, ok := t.Indexers["none"]; !ok {
		return bad("indexers", `missing "none" entry`)
	}
	if len(t.Defense.Escalation) == 0 {
		return bad("defense.escalation", "must not be empty")
	}
	if t.Push.PerTrip < 0 {
		return bad("push.per_trip", "must be >= 0")
	}
	if t.Climb.ScaleMin <= 0 || t.Climb.ScaleMax < t.Climb.ScaleMin {
		return bad("climb", "invalid scale range [%v,%v]", t.Climb.ScaleMin, t.Climb.ScaleMax)
	}
	if t.Ranking.EnergizedFuel <= 0 || t.Ranking.SuperchargedFuel <= 0 || t.Ranking.TraversalTower <= 0 {
		return bad("ranking", "bonus thresholds must be > 0")
	}
	return nil
}

// String renders the phase layout for logs.
func (p Phases) String() string {
	return fmt.Sprintf("opening=%vs transition=%vs shifts=%dx%vs endgame=%vs",
		p.Opening, p.Transition, p.Shifts, p.Shift, p.Endgame)
}
