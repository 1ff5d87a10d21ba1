// Package agent is the per-robot behavior state machine. An agent advances
// once per tick; it never blocks, and waiting for fuel is a state like any
// other.
package agent

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/ledger"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tasks"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// Tower hands out climb positions. The orchestrator owns occupancy.
type Tower interface {
	Claim(slot int) bool
	Release(slot int)
}

// Orders are the planner's per-slot decisions that hold for the whole match.
type Orders struct {
	Auto        alliance.AutoAction
	ClimbTarget int
	// DefenseTarget is an opponent slot (0..2).
	DefenseTarget int
	Preposition   bool
}

// Env is what an agent sees during one step.
type Env struct {
	Tick   int
	Snap   phase.Snapshot
	Ledger *ledger.Ledger
	Tower  Tower
	// Preposition is the planner's advice to move a held stockpile to the
	// hub ahead of the next eligible window.
	Preposition bool
}

// Events is what one step produced, for the orchestrator to score.
type Events struct {
	Made   int
	Missed int
	Climb  *ClimbResult
	Health []HealthEvent
}

type ClimbResult struct {
	Target  int  `json:"target"`
	Level   int  `json:"level"`
	Auto    bool `json:"auto,omitempty"`
	Success bool `json:"success"`
}

type zone uint8

const (
	zoneAlliance zone = iota
	zoneNeutral
	zoneStation
	zoneHub
	zoneOpponent
	zoneTower
)

// goal says what a drive toward the hub is for.
type goal uint8

const (
	goalScore goal = iota
	goalDump
	goalTower
)

type autoState struct {
	started bool
	cycles  int
	done    bool
	climbed bool
}

type climbState struct {
	tried  bool
	auto   bool
	done   bool
	target int
	level  int
}

type Agent struct {
	Slot     int
	Alliance team.Alliance
	Index    int
	Label    string

	Base Capability
	Cap  Capability

	task   tasks.Task
	resume tasks.Kind
	role   alliance.Role
	orders Orders

	t   tuning.Tuning
	rng *rng.Stream

	health  Health
	pending []failure

	zone     zone
	goal     goal
	cycleSec float64
	burst    int

	stockpiled bool
	ready      bool
	pushing    bool

	defCycle float64
	defAcc   float64
	engaged  bool
	rolled   bool

	auto  autoState
	climb climbState

	ev  Events
	rec Record
}

// New builds an agent and draws its mechanism failures from r. slot indexes
// the flat agent table, index the position within the alliance.
func New(slot int, a team.Alliance, index int, c Capability, o Orders, forced []alliance.ForcedFailure, t tuning.Tuning, r *rng.Stream) *Agent {
	ag := &Agent{
		Slot:     slot,
		Alliance: a,
		Index:    index,
		Label:    c.Archetype,
		Base:     c,
		Cap:      c,
		orders:   o,
		t:        t,
		rng:      r.Split("behavior"),
		health:   Health{Intake: Nominal, Shooter: Nominal, Turret: Nominal},
	}
	ag.pending = drawFailures(c, forced, t, r.Split("health"))
	ag.task.Hold(tasks.Idle, 0)
	ag.climb.target = o.ClimbTarget
	ag.rec = Record{Slot: slot, Alliance: a, Index: index, Label: c.Archetype, ClimbTarget: o.ClimbTarget}
	return ag
}

func (a *Agent) State() tasks.Kind { return a.task.Kind }
func (a *Agent) Task() tasks.Task { return a.task }
func (a *Agent) Role() alliance.Role { return a.role }
func (a *Agent) Orders() Orders { return a.orders }
func (a *Agent) Health() Health { return a.health }
func (a *Agent) Engaged() bool { return a.engaged }
func (a *Agent) ClimbLevel() int { return a.climb.level }
func (a *Agent) ClimbResolved() bool { return a.climb.done }
func (a *Agent) Stockpiled() bool { return a.stockpiled }
func (a *Agent) DefensePenalty() (cycleHit, accuracyHit float64) { return a.defCycle, a.defAcc }

// SetDefense sets the penalty a defender exerts on this agent until the next
// call. Zero values clear it.
func (a *Agent) SetDefense(cycleHit, accuracyHit float64) {
	a.defCycle = cycleHit
	a.defAcc = accuracyHit
}

// Step advances the agent one tick.
func (a *Agent) Step(e Env) Events {
	a.ev = Events{}
	for len(a.pending) > 0 && a.pending[0].at <= e.Tick {
		f := a.pending[0]
		a.pending = a.pending[1:]
		a.applyFailure(f, e.Tick)
	}
	if a.climb.done {
		return a.ev
	}
	if e.Snap.Phase == phase.Endgame && a.shouldClimb(e) {
		a.startClimb(e)
	}

	if a.task.Timed() {
		a.during(e)
		if a.task.Tick() {
			a.finish(e)
		}
	} else if a.task.Kind == tasks.Defending {
		// Engaged defenders hold until their role changes.
		if a.effectiveRole() == alliance.RoleDefend {
			return a.ev
		}
		a.engaged = false
		a.task.Hold(tasks.Idle, e.Tick)
	}
	if !a.task.Timed() && a.task.Kind != tasks.Climbing && a.task.Kind != tasks.Defending {
		a.decide(e)
	}
	return a.ev
}

// during applies the per-tick effect of a timed state.
func (a *Agent) during(e Env) {
	k := a.task.Kind
	if k.AtTarget() || (k == tasks.ClearingJam && a.resume == tasks.Scoring) {
		e.Ledger.Contend(a.Alliance)
	}
	if !k.Shooting() {
		return
	}
	if !e.Snap.Eligible(a.Alliance) || !a.Cap.CanScore() {
		a.stopShooting(e.Tick)
		return
	}
	held := e.Ledger.Held(a.Slot)
	n := min(a.burst, held)
	if n > 0 {
		a.shoot(e, n)
	}
	if e.Ledger.Held(a.Slot) == 0 {
		a.task.Finish()
	}
}

// finish applies the effect of an elapsed state and starts the next one.
func (a *Agent) finish(e Env) {
	switch a.task.Kind {
	case tasks.DrivingToResource:
		if a.pushing {
			a.startPushTrip(e)
			return
		}
		a.beginIntake(e)
	case tasks.Intaking:
		a.afterIntake(e)
	case tasks.DrivingToTarget:
		a.zone = zoneHub
		switch a.goal {
		case goalTower:
			a.zone = zoneTower
			a.beginAutoClimb(e)
		case goalDump:
			a.startDump(e)
		default:
			a.beginAlign(e)
		}
	case tasks.Aligning:
		a.beginShooting(e, e.Snap.Phase != phase.Opening)
	case tasks.Scoring:
		a.burst = 0
		if e.Snap.Phase == phase.Opening {
			a.auto.cycles++
		}
		a.task.Hold(tasks.Idle, e.Tick)
	case tasks.Dumping:
		a.burst = 0
		a.stockpiled = false
		a.ready = false
		a.task.Hold(tasks.Idle, e.Tick)
	case tasks.PrePositioning:
		a.zone = zoneHub
		a.ready = true
		if a.goal == goalDump {
			a.startDump(e)
			return
		}
		a.task.Hold(tasks.StockpileHold, e.Tick)
	case tasks.ClearingJam:
		switch a.resume {
		case tasks.Intaking:
			a.doIntake(e)
		default:
			a.beginShooting(e, false)
		}
	case tasks.Defending:
		a.engaged = true
		a.zone = zoneOpponent
		a.task.Hold(tasks.Defending, e.Tick)
	case tasks.PushingResource:
		a.finishPush(e)
	case tasks.DrivingBack:
		a.zone = zoneAlliance
		a.task.Hold(tasks.Idle, e.Tick)
	case tasks.Climbing:
		a.resolveClimb(e)
	}
}

// decide picks the next action for an agent with nothing timed to do.
func (a *Agent) decide(e Env) {
	switch p := e.Snap.Phase; {
	case p == phase.Opening:
		a.decideAuto(e)
	case p == phase.Transition || p.IsShift() || p == phase.Endgame:
		a.decideRole(e)
	}
}

// effectiveRole is the assigned role, with scorers that can no longer score
// falling back to defense.
func (a *Agent) effectiveRole() alliance.Role {
	if a.role == alliance.RoleScore && !a.Cap.CanScore() {
		return alliance.RoleDefend
	}
	return a.role
}

func (a *Agent) decideRole(e Env) {
	switch role := a.effectiveRole(); role {
	case alliance.RoleScore:
		if !e.Snap.Eligible(a.Alliance) {
			a.decideStockpile(e, alliance.RoleStockpile)
			return
		}
		if e.Ledger.Held(a.Slot) > 0 && a.stockpiled {
			if a.zone == zoneHub {
				a.startDump(e)
			} else {
				a.startPreposition(e, goalDump)
			}
			return
		}
		a.startCycle(e)
	case alliance.RoleStockpile, alliance.RoleDeny:
		a.decideStockpile(e, role)
	case alliance.RoleDefend:
		a.startDefense(e)
	case alliance.RolePush:
		a.startPush(e)
	default:
		a.task.Hold(tasks.Idle, e.Tick)
	}
}

// OnPhaseChange applies a phase boundary: the new role takes over and
// in-flight actions that no longer make sense are cut short.
func (a *Agent) OnPhaseChange(e Env, role alliance.Role) {
	wasDefending := a.effectiveRole() == alliance.RoleDefend
	a.role = role
	a.rolled = false
	if a.climb.tried || e.Snap.Phase == phase.Opening {
		return
	}

	if e.Snap.Phase != phase.Opening && !a.auto.done {
		a.auto.done = true
		a.pushing = false
		switch {
		case a.task.Kind == tasks.Climbing && a.climb.auto:
			e.Tower.Release(a.Slot)
			a.climb.auto = false
			a.task.Start(tasks.DrivingBack, e.Tick, a.ticks(a.t.Climb.AutoDescend))
			return
		case a.task.Kind == tasks.PushingResource,
			a.task.Kind == tasks.DrivingToTarget && a.goal == goalTower:
			a.task.Hold(tasks.Idle, e.Tick)
		}
	}

	if wasDefending && a.effectiveRole() != alliance.RoleDefend && (a.engaged || a.task.Kind == tasks.Defending) {
		a.engaged = false
		a.zone = zoneOpponent
		a.task.Start(tasks.DrivingBack, e.Tick, a.ticks(a.t.Motion.Crossfield))
		return
	}
	if a.effectiveRole() == alliance.RoleDefend {
		if a.task.Kind != tasks.Defending {
			a.stopShooting(e.Tick)
			a.startDefense(e)
		}
		return
	}

	eligible := e.Snap.Eligible(a.Alliance)
	k := a.task.Kind
	if !eligible && (k.AtTarget() || (k == tasks.ClearingJam && a.resume == tasks.Scoring)) {
		a.burst = 0
		a.stockpiled = e.Ledger.Held(a.Slot) > 0
		a.task.Hold(tasks.Idle, e.Tick)
		return
	}
	if eligible && role == alliance.RoleScore && a.Cap.CanScore() && e.Ledger.Held(a.Slot) > 0 &&
		(k == tasks.StockpileHold || k == tasks.Idle || (k == tasks.PrePositioning && a.stockpiled)) {
		a.stockpiled = true
		if k == tasks.PrePositioning {
			a.goal = goalDump
			return
		}
		if a.zone == zoneHub {
			a.startDump(e)
		} else {
			a.startPreposition(e, goalDump)
		}
		return
	}
	if role == alliance.RolePush && k != tasks.PushingResource {
		a.task.Hold(tasks.Idle, e.Tick)
	}
}

// RollFouls makes the once-per-phase foul trials of an engaged defender.
// zone carries the base rates for where the contact happens.
func (a *Agent) RollFouls(z tuning.ZoneFoul) (fouls, tech int) {
	if !a.engaged || a.rolled {
		return 0, 0
	}
	a.rolled = true
	esc := a.t.Defense.EscalationFor(a.rec.Fouls + a.rec.TechFouls)
	if a.rng.Bernoulli(min(1, z.Foul*esc)) {
		fouls++
	}
	if a.rng.Bernoulli(min(1, z.TechFoul*esc)) {
		tech++
	}
	a.rec.Fouls += fouls
	a.rec.TechFouls += tech
	return fouls, tech
}

// InNeutral reports whether the agent is working the neutral zone, where
// contact draws the lowest foul rates.
func (a *Agent) InNeutral() bool { return a.zone == zoneNeutral }

// Check reports agent states that must never coexist. onTower is the
// orchestrator's occupancy for this agent.
func (a *Agent) Check(tick int, onTower bool) error {
	k := a.task.Kind
	if onTower && k != tasks.Climbing {
		return simerr.Invariant(protocol.ErrInvAgentState, tick, "agent %d on the tower in state %s", a.Slot, k)
	}
	if !onTower && k == tasks.Climbing && !a.climb.done {
		return simerr.Invariant(protocol.ErrInvAgentState, tick, "agent %d climbing off the tower", a.Slot)
	}
	if a.burst > 0 && !k.Shooting() && !(k == tasks.ClearingJam && a.resume == tasks.Scoring) {
		return simerr.Invariant(protocol.ErrInvAgentState, tick, "agent %d has a shot burst in state %s", a.Slot, k)
	}
	if k == tasks.Climbing && a.burst > 0 {
		return simerr.Invariant(protocol.ErrInvAgentState, tick, "agent %d shooting while climbing", a.Slot)
	}
	if a.task.Remaining < 0 {
		return simerr.Invariant(protocol.ErrInvAgentState, tick, "agent %d countdown %d", a.Slot, a.task.Remaining)
	}
	return nil
}

func (a *Agent) ticks(seconds float64) int { return a.t.TicksMin1(seconds) }

func (a *Agent) stopShooting(tick int) {
	if a.burst == 0 && !a.task.Kind.Shooting() {
		return
	}
	a.burst = 0
	if a.task.Kind.Shooting() || a.task.Kind == tasks.Aligning || a.task.Kind == tasks.ClearingJam {
		a.task.Hold(tasks.Idle, tick)
	}
}
