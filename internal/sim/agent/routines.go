package agent

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tasks"
)

// decideAuto runs the opening routine chosen by the planner.
func (a *Agent) decideAuto(e Env) {
	if a.auto.done {
		return
	}
	m := a.t.Motion
	switch a.orders.Auto {
	case alliance.AutoClimb:
		if a.auto.started {
			a.auto.done = true
			return
		}
		a.auto.started = true
		a.goal = goalTower
		c := a.t.Climb
		a.beginDriveToTarget(e, a.ticks(a.rng.Uniform(c.AutoDriveMin, c.AutoDriveMax)))

	case alliance.AutoDisrupt:
		if a.auto.started {
			return
		}
		a.auto.started = true
		a.pushing = true
		a.zone = zoneNeutral
		a.task.Start(tasks.DrivingToResource, e.Tick, a.ticks(a.rng.Uniform(m.AutoReturnMin, m.AutoReturnMax)))

	default:
		if !a.Cap.CanScore() || (a.auto.started && a.auto.cycles >= a.Cap.AutoCycles) {
			a.auto.done = true
			return
		}
		held := e.Ledger.Held(a.Slot)
		a.goal = goalScore
		switch {
		case !a.auto.started:
			a.auto.started = true
			if held == 0 {
				a.auto.cycles++
				a.decideAuto(e)
				return
			}
			a.beginDriveToTarget(e, a.ticks(a.rng.Uniform(m.AutoDriveMin, m.AutoDriveMax)))
		case held > 0:
			a.beginAlign(e)
		case a.Cap.Ground:
			a.zone = zoneNeutral
			a.task.Start(tasks.DrivingToResource, e.Tick, a.ticks(a.rng.Uniform(m.AutoNeutralMin, m.AutoNeutralMax)))
		default:
			a.auto.done = true
		}
	}
}

func (a *Agent) beginAutoClimb(e Env) {
	if !e.Tower.Claim(a.Slot) {
		a.auto.done = true
		a.task.Hold(tasks.Idle, e.Tick)
		return
	}
	a.climb.auto = true
	a.task.Start(tasks.Climbing, e.Tick, a.ticks(a.t.Climb.AutoClimbSeconds))
}

// shouldClimb is the endgame trigger: a planned level, a start time, and
// little enough match left.
func (a *Agent) shouldClimb(e Env) bool {
	if a.climb.tried || a.climb.target <= 0 || a.Cap.ClimbStartTicks <= 0 {
		return false
	}
	if a.task.Kind == tasks.Climbing {
		return false
	}
	return e.Snap.TicksRemainingInMatch <= a.Cap.ClimbStartTicks
}

// startClimb interrupts whatever the agent is doing. Held fuel stays on
// board; an unfinished burst is abandoned.
func (a *Agent) startClimb(e Env) {
	a.climb.tried = true
	a.burst = 0
	a.engaged = false
	a.resume = ""
	if !e.Tower.Claim(a.Slot) {
		a.task.Hold(tasks.Idle, e.Tick)
		return
	}
	a.zone = zoneTower
	base := a.t.Climb.BaseSeconds(a.climb.target)
	scale := a.rng.Uniform(a.t.Climb.ScaleMin, a.t.Climb.ScaleMax)
	a.task.Start(tasks.Climbing, e.Tick, a.ticks(base*scale))
}

// resolveClimb makes the single success trial. The endgame climb is
// terminal either way; the opening climb descends afterwards.
func (a *Agent) resolveClimb(e Env) {
	if a.climb.auto {
		a.climb.auto = false
		ok := a.rng.Bernoulli(a.Cap.Success(1))
		res := &ClimbResult{Target: 1, Auto: true, Success: ok}
		if ok {
			res.Level = 1
			a.auto.climbed = true
			a.rec.AutoClimb = true
		}
		a.ev.Climb = res
		e.Tower.Release(a.Slot)
		a.auto.done = true
		a.task.Start(tasks.DrivingBack, e.Tick, a.ticks(a.t.Climb.AutoDescend))
		return
	}
	lvl := a.climb.target
	ok := a.rng.Bernoulli(a.Cap.Success(lvl))
	res := &ClimbResult{Target: lvl, Success: ok}
	if ok {
		res.Level = lvl
		a.climb.level = lvl
		a.rec.ClimbLevel = lvl
	}
	a.climb.done = true
	a.ev.Climb = res
	a.task.Hold(tasks.Climbing, e.Tick)
}

// startDefense drives across the field unless already there.
func (a *Agent) startDefense(e Env) {
	a.burst = 0
	a.pushing = false
	if a.zone == zoneOpponent {
		a.engaged = true
		a.task.Hold(tasks.Defending, e.Tick)
		return
	}
	a.engaged = false
	a.task.Start(tasks.Defending, e.Tick, a.ticks(a.t.Motion.Crossfield))
}

func (a *Agent) startPush(e Env) {
	a.pushing = true
	a.zone = zoneNeutral
	a.task.Start(tasks.PushingResource, e.Tick, a.ticks(a.t.Push.TripSeconds))
}

// startPushTrip begins per-tick pushing after the opening drive.
func (a *Agent) startPushTrip(e Env) {
	a.zone = zoneNeutral
	a.task.Start(tasks.PushingResource, e.Tick, 1)
}

func (a *Agent) finishPush(e Env) {
	p := a.t.Push
	moved := e.Ledger.Push(a.Slot, a.Alliance, p.PerTrip, p.Scatter)
	a.rec.Pushed += moved
	if !a.auto.done && a.orders.Auto == alliance.AutoDisrupt {
		a.task.Start(tasks.PushingResource, e.Tick, 1)
		return
	}
	a.task.Hold(tasks.Idle, e.Tick)
}
