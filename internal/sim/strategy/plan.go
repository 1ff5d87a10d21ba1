// Package strategy turns an alliance config into per-slot orders and picks
// the role of each agent as the match clock moves. Everything here is a pure
// function of its inputs; no randomness is consumed.
package strategy

import (
	"sort"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/agent"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// BestOpponent marks a defense target that resolves to the opponent's best
// scorer once both alliances are known.
const BestOpponent = -1

// Slot is the plan for one agent.
type Slot struct {
	Active   alliance.Role `json:"active"`
	Inactive alliance.Role `json:"inactive"`
	// Preposition moves a held stockpile to the hub before the next window.
	Preposition   bool                `json:"preposition"`
	DefenseTarget int                 `json:"defense_target"`
	ClimbTarget   int                 `json:"climb_target"`
	Auto          alliance.AutoAction `json:"auto"`
}

// Defends reports whether the slot defends in both windows.
func (s Slot) Defends() bool {
	return s.Active == alliance.RoleDefend && s.Inactive == alliance.RoleDefend
}

type Plan struct {
	Preset      alliance.Preset          `json:"preset"`
	HumanPlayer alliance.HumanPlayerMode `json:"human_player"`
	Slots       []Slot                   `json:"slots"`
	// Rank lists slots best scorer first.
	Rank []int `json:"rank"`
	// ExpectedTowerPoints is the probability-weighted endgame total of the
	// climb targets.
	ExpectedTowerPoints float64 `json:"expected_tower_points"`
}

// Orders converts a slot plan into the agent's standing orders.
func (p Plan) Orders(slot int) agent.Orders {
	s := p.Slots[slot]
	return agent.Orders{
		Auto:          s.Auto,
		ClimbTarget:   s.ClimbTarget,
		DefenseTarget: s.DefenseTarget,
		Preposition:   s.Preposition,
	}
}

// ResolveTargets replaces BestOpponent with the opponent's top-ranked slot.
func (p *Plan) ResolveTargets(opponents []agent.Capability) {
	best := 0
	if r := Rank(opponents); len(r) > 0 {
		best = r[0]
	}
	for i := range p.Slots {
		if p.Slots[i].DefenseTarget == BestOpponent {
			p.Slots[i].DefenseTarget = best
		}
	}
}

// Rank orders slots by scoring potential, best first; ties keep slot order.
func Rank(caps []agent.Capability) []int {
	idx := make([]int, len(caps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return caps[idx[a]].ScoringPotential() > caps[idx[b]].ScoringPotential()
	})
	return idx
}

// HumanPlayerMode is the preset's human player mode when the config leaves it
// unset.
func HumanPlayerMode(p alliance.Preset) alliance.HumanPlayerMode {
	switch p {
	case alliance.TwoScoreOneDef, alliance.DenyAndScore, alliance.Surge:
		return alliance.HPFeed
	case alliance.OneScoreTwoDef:
		return alliance.HPThrow
	}
	return alliance.HPMixed
}

// BuildPlan applies the preset to the ranked alliance, then the endgame
// plan, then any per-agent overrides in cfg. cfg must be valid and caps
// resolved from it in slot order.
func BuildPlan(cfg alliance.Config, caps []agent.Capability, t tuning.Tuning) Plan {
	rank := Rank(caps)
	p := Plan{
		Preset:      cfg.Preset,
		HumanPlayer: cfg.HumanPlayer,
		Slots:       make([]Slot, len(caps)),
		Rank:        rank,
	}
	if p.HumanPlayer == "" {
		p.HumanPlayer = HumanPlayerMode(cfg.Preset)
	}

	scorer := Slot{Active: alliance.RoleScore, Inactive: alliance.RoleStockpile, Preposition: true, DefenseTarget: BestOpponent}
	defender := Slot{Active: alliance.RoleDefend, Inactive: alliance.RoleDefend, DefenseTarget: BestOpponent}
	for i := range p.Slots {
		p.Slots[i] = scorer
	}
	if len(rank) == alliance.Size {
		mid, worst := rank[1], rank[2]
		switch cfg.Preset {
		case alliance.TwoScoreOneDef:
			p.Slots[worst] = defender
		case alliance.OneScoreTwoDef:
			p.Slots[mid] = defender
			p.Slots[worst] = defender
		case alliance.DenyAndScore:
			p.Slots[worst].Inactive = alliance.RoleDeny
		}
	}

	levels, _ := EndgamePlan(caps, t)
	for i := range p.Slots {
		p.Slots[i].ClimbTarget = levels[i]
		p.Slots[i].Auto = alliance.AutoScore
	}

	for i, ac := range cfg.Agents {
		if i >= len(p.Slots) {
			break
		}
		s := &p.Slots[i]
		if ac.Roles != nil {
			s.Active = ac.Roles.Active
			s.Inactive = ac.Roles.Inactive
		}
		if ac.Auto != "" {
			s.Auto = ac.Auto
		}
		if ac.ClimbTarget != nil {
			s.ClimbTarget = *ac.ClimbTarget
		}
		if ac.DefenseTarget != nil {
			s.DefenseTarget = *ac.DefenseTarget
		}
		if ac.Preposition != nil {
			s.Preposition = *ac.Preposition
		}
	}
	p.ExpectedTowerPoints = expectedPoints(caps, p.Slots, t)
	return p
}

// RoleFor is the role of slot for the phase in snap. Agents that cannot
// score are never sent to score or hold fuel.
func RoleFor(p Plan, slot int, snap phase.Snapshot, a team.Alliance, c agent.Capability) alliance.Role {
	s := p.Slots[slot]
	var role alliance.Role
	switch {
	case snap.Phase == phase.Opening:
		role = alliance.RoleScore
		if s.Auto == alliance.AutoDisrupt {
			role = alliance.RolePush
		}
	case snap.Phase == phase.Transition:
		role = alliance.RoleStockpile
		if s.Inactive == alliance.RoleDefend {
			role = alliance.RoleDefend
		}
	case snap.Phase.IsShift():
		role = s.Inactive
		if snap.Eligible(a) {
			role = s.Active
		}
	default:
		role = s.Active
	}
	if !c.CanScore() && (role == alliance.RoleScore || role == alliance.RoleStockpile) && snap.Phase != phase.Opening {
		return alliance.RoleDefend
	}
	return role
}

// ShouldPreposition advises a holding agent to move its stockpile to the hub
// when the alliance's next eligible window opens within lead ticks.
func ShouldPreposition(p Plan, slot int, role alliance.Role, snap phase.Snapshot, nextEligibleIn, lead int) bool {
	if !role.Holding() || !p.Slots[slot].Preposition {
		return false
	}
	if snap.Phase != phase.Transition && !snap.Phase.IsShift() {
		return false
	}
	return nextEligibleIn > 0 && nextEligibleIn <= lead
}
