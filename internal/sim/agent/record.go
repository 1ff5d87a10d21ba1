package agent

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tasks"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

// Record is the per-agent summary carried in a match result.
type Record struct {
	Slot     int           `json:"slot"`
	Alliance team.Alliance `json:"alliance"`
	Index    int           `json:"index"`
	Label    string        `json:"label"`

	Made     int `json:"made"`
	Missed   int `json:"missed"`
	AutoMade int `json:"auto_made"`
	Pushed   int `json:"pushed"`
	Jams     int `json:"jams"`
	// Starved counts intake attempts that found nothing to pick up.
	Starved int `json:"starved"`

	Fouls     int `json:"fouls"`
	TechFouls int `json:"tech_fouls"`

	AutoClimb   bool `json:"auto_climb"`
	ClimbTarget int  `json:"climb_target"`
	ClimbLevel  int  `json:"climb_level"`

	Health []HealthEvent `json:"health,omitempty"`
	Final  Capability    `json:"final"`
}

// Record returns a copy of the summary with the current capability.
func (a *Agent) Record() Record {
	r := a.rec
	r.Health = append([]HealthEvent(nil), a.rec.Health...)
	r.Final = a.Cap
	return r
}

// View is the digestable runtime state of an agent.
type View struct {
	Slot       int
	State      tasks.Kind
	Remaining  int
	Role       alliance.Role
	Burst      int
	Engaged    bool
	Stockpiled bool
	Ready      bool
	Zone       uint8
	ClimbLevel int
	Health     Health
	Accuracy   float64
	ShootRate  float64
}

func (a *Agent) View() View {
	return View{
		Slot:       a.Slot,
		State:      a.task.Kind,
		Remaining:  a.task.Remaining,
		Role:       a.role,
		Burst:      a.burst,
		Engaged:    a.engaged,
		Stockpiled: a.stockpiled,
		Ready:      a.ready,
		Zone:       uint8(a.zone),
		ClimbLevel: a.climb.level,
		Health:     a.health,
		Accuracy:   a.Cap.Accuracy,
		ShootRate:  a.Cap.ShootRate,
	}
}
