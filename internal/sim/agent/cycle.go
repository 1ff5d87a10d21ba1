package agent

import (
	"math"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/ledger"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tasks"
)

// startCycle begins drive -> intake -> drive -> align -> shoot. The cycle
// length is drawn once and split across the drive legs.
func (a *Agent) startCycle(e Env) {
	m := a.t.Motion
	mean := a.Cap.CycleMean * (1 + a.defCycle)
	a.cycleSec = math.Max(m.CycleFloor*mean, a.rng.Normal(mean, a.Cap.CycleStdDev*(1+a.defCycle)))
	a.stockpiled = false
	a.ready = false
	a.pushing = false
	a.goal = goalScore
	if e.Ledger.Room(a.Slot) == 0 {
		a.beginDriveToTarget(e, a.ticks(a.cycleSec*m.DriveToTargetShare))
		return
	}
	a.driveToResource(e, a.ticks(a.cycleSec*m.DriveToResourceShare))
}

// driveToResource heads for fuel. Agents without ground pickup go to the
// feed station instead.
func (a *Agent) driveToResource(e Env, ticks int) {
	if !a.Cap.Ground {
		a.zone = zoneStation
		ticks = a.ticks(a.t.Motion.FeedStationDrive)
	} else {
		a.zone = zoneNeutral
	}
	a.task.Start(tasks.DrivingToResource, e.Tick, ticks)
}

func (a *Agent) beginIntake(e Env) {
	if a.Cap.Ground && a.rng.Bernoulli(a.t.Jams.IntakeJamRate) {
		a.rec.Jams++
		a.resume = tasks.Intaking
		a.task.Start(tasks.ClearingJam, e.Tick, a.ticks(a.t.Jams.IntakeClearSeconds))
		return
	}
	a.doIntake(e)
}

// doIntake pulls fuel through the ledger. Ground intakes make one success
// trial per missing unit; the station hands over whatever it has at the
// feed interval.
func (a *Agent) doIntake(e Env) {
	a.resume = ""
	need := e.Ledger.Room(a.Slot)
	var got int
	var ticks int
	if !a.Cap.Ground {
		got = e.Ledger.RequestIntake(a.Slot, ledger.AtStation(a.Alliance), need)
		ticks = a.ticks(float64(got) * a.t.HumanPlayer.FeedInterval)
	} else {
		for i := 0; i < need; i++ {
			p := a.rng.Uniform(a.Cap.IntakeMin, a.Cap.IntakeMax)
			if !a.rng.Bernoulli(p) {
				continue
			}
			if a.pullOne(e) == 0 {
				break
			}
			got++
		}
		ticks = 1
		if got > 0 && a.Cap.IntakeRate > 0 {
			ticks = a.ticks(float64(got) / a.Cap.IntakeRate)
		}
	}
	if got == 0 && need > 0 {
		a.rec.Starved++
	}
	a.task.Start(tasks.Intaking, e.Tick, ticks)
}

// pullOne takes a unit from the alliance zone first, then the open field.
// Agents denying the shared pool only take from the field.
func (a *Agent) pullOne(e Env) int {
	if a.role != alliance.RoleDeny || e.Snap.Phase == phase.Opening {
		if n := e.Ledger.RequestIntake(a.Slot, ledger.AtZone(a.Alliance), 1); n > 0 {
			return n
		}
	}
	return e.Ledger.RequestIntake(a.Slot, ledger.AtField(), 1)
}

func (a *Agent) afterIntake(e Env) {
	held := e.Ledger.Held(a.Slot)
	switch {
	case e.Snap.Phase == phase.Opening:
		a.goal = goalScore
		m := a.t.Motion
		a.beginDriveToTarget(e, a.ticks(a.rng.Uniform(m.AutoReturnMin, m.AutoReturnMax)))
	case a.scoringNow(e):
		if held == 0 {
			a.task.Hold(tasks.Idle, e.Tick)
			return
		}
		if a.cycleSec == 0 {
			a.cycleSec = a.Cap.CycleMean
		}
		a.goal = goalScore
		a.beginDriveToTarget(e, a.ticks(a.cycleSec*a.t.Motion.DriveToTargetShare))
	default:
		a.stockpileDone(e, held)
	}
}

// scoringNow reports whether the agent should carry fuel to its hub now.
func (a *Agent) scoringNow(e Env) bool {
	return a.effectiveRole() == alliance.RoleScore && e.Snap.Eligible(a.Alliance)
}

func (a *Agent) slowdown(e Env) float64 {
	return 1 + a.t.Congestion.SlowdownMax*e.Ledger.Congestion(a.Alliance)
}

func (a *Agent) beginDriveToTarget(e Env, ticks int) {
	if a.goal == goalScore || a.goal == goalDump {
		ticks = int(math.Round(float64(ticks) * a.slowdown(e)))
	}
	a.task.Start(tasks.DrivingToTarget, e.Tick, ticks)
}

func (a *Agent) beginAlign(e Env) {
	if a.Cap.AlignTicks == 0 {
		a.beginShooting(e, e.Snap.Phase != phase.Opening)
		return
	}
	ticks := int(math.Round(float64(a.Cap.AlignTicks) * a.slowdown(e)))
	a.task.Start(tasks.Aligning, e.Tick, ticks)
}

// beginShooting starts a burst that empties the hopper at the shoot rate.
// With jam set, the indexer may jam first; clearing it resumes the burst.
func (a *Agent) beginShooting(e Env, jam bool) {
	a.resume = ""
	held := e.Ledger.Held(a.Slot)
	if held == 0 || !a.Cap.CanScore() || !e.Snap.Eligible(a.Alliance) {
		a.burst = 0
		a.stockpiled = held > 0
		a.task.Hold(tasks.Idle, e.Tick)
		return
	}
	if jam && a.rng.Bernoulli(a.Cap.JamRate) {
		a.rec.Jams++
		a.resume = tasks.Scoring
		a.burst = 1
		a.task.Start(tasks.ClearingJam, e.Tick, a.ticks(a.t.Jams.ClearSeconds))
		return
	}
	a.startBurst(e, tasks.Scoring, a.Cap.ShootRate)
}

// startDump empties a stockpile at the fixed per-unit dump rate.
func (a *Agent) startDump(e Env) {
	held := e.Ledger.Held(a.Slot)
	if held == 0 || !a.Cap.CanScore() || !e.Snap.Eligible(a.Alliance) {
		a.task.Hold(tasks.Idle, e.Tick)
		return
	}
	a.zone = zoneHub
	a.goal = goalScore
	rate := 1.0
	if a.t.Motion.DumpPerUnit > 0 {
		rate = 1 / a.t.Motion.DumpPerUnit
	}
	a.startBurst(e, tasks.Dumping, rate)
}

func (a *Agent) startBurst(e Env, k tasks.Kind, rate float64) {
	held := e.Ledger.Held(a.Slot)
	ticks := 1
	if perTick := rate * a.t.TickSeconds; perTick > 0 {
		ticks = max(1, int(math.Ceil(float64(held)/perTick)))
	}
	a.burst = (held + ticks - 1) / ticks
	a.task.Start(k, e.Tick, ticks)
}

// shoot launches n held units with one accuracy trial each.
func (a *Agent) shoot(e Env, n int) {
	p := a.Cap.Accuracy - a.defAcc
	if p < 0 {
		p = 0
	}
	p *= 1 - a.t.Congestion.AccuracyPenaltyMax*e.Ledger.Congestion(a.Alliance)
	made := 0
	for i := 0; i < n; i++ {
		if a.rng.Bernoulli(p) {
			made++
		}
	}
	credit := e.Ledger.ScheduleScore(a.Slot, made, n-made, a.Alliance, e.Tick)
	a.ev.Made += credit
	a.ev.Missed += n - made
	a.rec.Made += credit
	a.rec.Missed += n - made
	if e.Snap.Phase == phase.Opening {
		a.rec.AutoMade += credit
	}
}

// decideStockpile runs the holding roles: fill up once per window, then
// either pre-position at the hub or sit ready at the source.
func (a *Agent) decideStockpile(e Env, role alliance.Role) {
	held := e.Ledger.Held(a.Slot)
	if a.ready || e.Ledger.Room(a.Slot) == 0 {
		a.stockpiled = held > 0
		if held > 0 && a.zone != zoneHub && (e.Preposition || (role == alliance.RoleStockpile && a.orders.Preposition)) {
			a.startPreposition(e, goalScore)
			return
		}
		if a.task.Kind != tasks.StockpileHold {
			a.task.Hold(tasks.StockpileHold, e.Tick)
		}
		return
	}
	if held > 0 && e.Preposition && a.zone != zoneHub {
		a.stockpiled = true
		a.startPreposition(e, goalScore)
		return
	}
	a.goal = goalScore
	a.pushing = false
	m := a.t.Motion
	a.driveToResource(e, a.ticks(a.rng.Uniform(m.StockpileDriveMin, m.StockpileDriveMax)))
}

func (a *Agent) stockpileDone(e Env, held int) {
	if held == 0 {
		a.task.Hold(tasks.Idle, e.Tick)
		return
	}
	a.stockpiled = true
	a.ready = true
	if a.role == alliance.RoleStockpile && a.orders.Preposition && a.zone != zoneHub {
		a.startPreposition(e, goalScore)
		return
	}
	a.task.Hold(tasks.StockpileHold, e.Tick)
}

// startPreposition drives a stockpile to the hub; the leg depends on where
// the agent is. With goalDump it dumps on arrival.
func (a *Agent) startPreposition(e Env, g goal) {
	m := a.t.Motion
	var sec float64
	switch a.zone {
	case zoneHub:
		sec = 0
	case zoneStation:
		sec = m.PrepositionFromFeed
	case zoneOpponent:
		sec = m.Crossfield
	default:
		sec = m.PrepositionFromNeutral
	}
	a.goal = g
	if sec == 0 {
		a.ready = true
		if g == goalDump {
			a.startDump(e)
			return
		}
		a.task.Hold(tasks.StockpileHold, e.Tick)
		return
	}
	a.task.Start(tasks.PrePositioning, e.Tick, a.ticks(sec))
}
