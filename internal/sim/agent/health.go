package agent

import (
	"sort"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

type Status string

const (
	Nominal  Status = "nominal"
	Degraded Status = "degraded"
	Broken   Status = "broken"
	Stuck    Status = "stuck"
)

// Health is the current status of each mechanism.
type Health struct {
	Intake  Status `json:"intake"`
	Shooter Status `json:"shooter"`
	Turret  Status `json:"turret"`
}

// HealthEvent records one mechanism failure taking effect.
type HealthEvent struct {
	Tick      int                `json:"tick"`
	Mechanism alliance.Mechanism `json:"mechanism"`
	Outcome   alliance.Outcome   `json:"outcome"`
	Forced    bool               `json:"forced,omitempty"`
}

type failure struct {
	mech    alliance.Mechanism
	outcome alliance.Outcome
	at      int
	forced  bool
}

// drawFailures rolls every mechanism once and schedules each hit at a uniform
// tick over the match. Forced failures replace the roll for their mechanism.
// The draws for a mechanism are consumed even when forced, so forcing one
// mechanism does not shift the others.
func drawFailures(c Capability, forced []alliance.ForcedFailure, t tuning.Tuning, r *rng.Stream) []failure {
	total := t.TotalTicks()
	var out []failure
	roll := func(mech alliance.Mechanism, outcome alliance.Outcome) {
		at := r.Intn(total)
		if outcome != "" {
			out = append(out, failure{mech: mech, outcome: outcome, at: at})
		}
	}

	rob := t.Failures.Intake[c.IntakeRobustness]
	var intake alliance.Outcome
	switch {
	case r.Bernoulli(rob.Break):
		intake = alliance.Broken
	case r.Bernoulli(rob.Degrade):
		intake = alliance.Degraded
	}
	roll(alliance.MechIntake, intake)

	if c.Shooter != noShooter && c.Shooter != "" {
		degrade := t.Failures.BasicDegrade
		if c.Multishot {
			degrade = t.Failures.MultishotDegrade
		}
		var shooter alliance.Outcome
		switch {
		case r.Bernoulli(t.Failures.ShooterBreak):
			shooter = alliance.Broken
		case r.Bernoulli(degrade):
			shooter = alliance.Degraded
		}
		roll(alliance.MechShooter, shooter)
	}
	if c.Turret {
		var turret alliance.Outcome
		if r.Bernoulli(t.Failures.TurretStuck) {
			turret = alliance.Stuck
		}
		roll(alliance.MechTurret, turret)
	}

	if len(forced) > 0 {
		keep := out[:0]
		for _, f := range out {
			if !isForced(forced, f.mech) {
				keep = append(keep, f)
			}
		}
		out = keep
		for _, f := range forced {
			if f.Mechanism == alliance.MechTurret && !c.Turret {
				continue
			}
			out = append(out, failure{mech: f.Mechanism, outcome: f.Outcome, at: f.AtTick, forced: true})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out
}

func isForced(forced []alliance.ForcedFailure, m alliance.Mechanism) bool {
	for _, f := range forced {
		if f.Mechanism == m {
			return true
		}
	}
	return false
}

// applyFailure edits the effective capability permanently.
func (a *Agent) applyFailure(f failure, tick int) {
	t := a.t
	c := &a.Cap
	switch f.mech {
	case alliance.MechIntake:
		if f.outcome == alliance.Broken {
			a.health.Intake = Broken
			c.setIntake(t, lowestTier(t))
			c.IntakeRate = 0
			break
		}
		a.health.Intake = Degraded
		c.IntakeDegraded = true
		c.setIntake(t, nextTier(t, c.IntakeQuality))
		c.IntakeRate *= t.Failures.DegradedIntakeSpeed
		if c.IntakeMax > t.Failures.DegradedIntakeMax {
			c.IntakeMax = t.Failures.DegradedIntakeMax
		}
		if c.IntakeMin > c.IntakeMax {
			c.IntakeMin = c.IntakeMax
		}
	case alliance.MechShooter:
		if f.outcome == alliance.Broken {
			a.health.Shooter = Broken
			c.Shooter = noShooter
			c.ShootRate = 0
			a.stopShooting(tick)
			break
		}
		a.health.Shooter = Degraded
		if dr := t.Shooters[c.Shooter].DegradedRate; dr > 0 && dr < c.ShootRate {
			c.ShootRate = dr
		}
	case alliance.MechTurret:
		a.health.Turret = Stuck
		c.Turret = false
		c.AlignTicks += t.Ticks(t.Failures.TurretStuckAlign)
		c.Accuracy -= t.Failures.TurretStuckAccuracy
		if c.Accuracy < 0 {
			c.Accuracy = 0
		}
	}
	ev := HealthEvent{Tick: tick, Mechanism: f.mech, Outcome: f.outcome, Forced: f.forced}
	a.rec.Health = append(a.rec.Health, ev)
	a.ev.Health = append(a.ev.Health, ev)
}

func nextTier(t tuning.Tuning, quality string) string {
	for i, q := range t.IntakeTiers {
		if q == quality && i+1 < len(t.IntakeTiers) {
			// The last tier is "no ground pickup"; degrading stops above it.
			if i+2 < len(t.IntakeTiers) {
				return t.IntakeTiers[i+1]
			}
			return quality
		}
	}
	return quality
}

func lowestTier(t tuning.Tuning) string {
	if n := len(t.IntakeTiers); n > 0 {
		return t.IntakeTiers[n-1]
	}
	return "no_ground_pickup"
}
