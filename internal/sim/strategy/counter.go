package strategy

import (
	"fmt"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// Scoring-potential tiers. A strong scorer makes about 0.7 fuel per second
// of cycle; elite designs clear one.
const (
	StrongPotential = 0.6
	ElitePotential  = 1.0
)

type Tier string

const (
	TierElite  Tier = "elite"
	TierStrong Tier = "strong"
	TierLow    Tier = "low"
)

// TierOf places an archetype by its scoring potential.
func TierOf(a catalogs.Archetype) Tier {
	switch p := a.ScoringPotential(); {
	case p >= ElitePotential:
		return TierElite
	case p >= StrongPotential:
		return TierStrong
	}
	return TierLow
}

type Recommendation struct {
	Preset alliance.Preset `json:"preset"`
	Reason string          `json:"reason"`
	// StrongOrBetter counts opponents at the strong tier or above.
	StrongOrBetter int `json:"strong_or_better"`
	EliteTurrets   int `json:"elite_turrets"`
}

// CounterStrategy recommends a preset against the opposing alliance. Defense
// does little against an elite turret, so its presence favors outscoring;
// otherwise any strong fixed shooter is worth a defender.
func CounterStrategy(opponents []string, cat *catalogs.Catalog, t tuning.Tuning) (Recommendation, error) {
	var r Recommendation
	for i, id := range opponents {
		a, ok := cat.Lookup(id)
		if !ok {
			return r, simerr.Config(protocol.ErrConfigUnknownArchetype, fmt.Sprintf("opponent[%d]", i), "unknown archetype %q", id)
		}
		tier := TierOf(a)
		if tier == TierLow {
			continue
		}
		r.StrongOrBetter++
		if tier == TierElite && t.Shooters[a.Shooter].Turret {
			r.EliteTurrets++
		}
	}
	switch {
	case r.EliteTurrets > 0 && r.StrongOrBetter >= 3:
		r.Preset = alliance.Surge
		r.Reason = "elite turret with strong partners: outscore them with surges"
	case r.EliteTurrets > 0:
		r.Preset = alliance.FullOffense
		r.Reason = "elite turret shrugs off defense: outscore it"
	case r.StrongOrBetter > 0:
		r.Preset = alliance.TwoScoreOneDef
		r.Reason = "fixed-shooter scorers are vulnerable to defense"
	default:
		r.Preset = alliance.FullOffense
		r.Reason = "low-tier opponents: no defense needed"
	}
	return r, nil
}
