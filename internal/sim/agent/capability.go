package agent

import (
	"math"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

const noShooter = "none"

// Capability is everything the behavior engine needs to know about a robot.
// It is resolved once from the archetype, the tuning tables and the config
// overrides; degradation edits the agent's effective copy.
type Capability struct {
	Archetype string `json:"archetype"`
	Capacity  int    `json:"capacity"`

	CycleMean   float64 `json:"cycle_mean"`
	CycleStdDev float64 `json:"cycle_stddev"`
	Accuracy    float64 `json:"accuracy"`

	Shooter    string  `json:"shooter"`
	Turret     bool    `json:"turret"`
	Multishot  bool    `json:"multishot"`
	AlignTicks int     `json:"align_ticks"`
	ShootRate  float64 `json:"shoot_rate"`
	JamRate    float64 `json:"jam_rate"`

	IntakeQuality    string  `json:"intake_quality"`
	IntakeMin        float64 `json:"intake_min"`
	IntakeMax        float64 `json:"intake_max"`
	Ground           bool    `json:"ground"`
	IntakeRate       float64 `json:"intake_rate"`
	IntakeRobustness string  `json:"intake_robustness,omitempty"`
	IntakeDegraded   bool    `json:"intake_degraded,omitempty"`

	// ClimbSuccess is indexed by level; index 0 is unused.
	ClimbSuccess    [4]float64 `json:"climb_success"`
	ClimbLevel      int        `json:"climb_level"`
	ClimbStartTicks int        `json:"climb_start_ticks"`

	AutoFuel   int `json:"auto_fuel"`
	AutoCycles int `json:"auto_cycles"`
}

// Resolve builds the capability for one configured agent. The config must
// already have passed alliance validation against the same catalog and
// tuning.
func Resolve(arch catalogs.Archetype, cfg alliance.AgentConfig, t tuning.Tuning) Capability {
	c := Capability{
		Archetype:        arch.ID,
		Capacity:         arch.Capacity,
		CycleMean:        arch.CycleMean,
		CycleStdDev:      arch.CycleStdDev,
		Accuracy:         arch.Accuracy,
		Shooter:          arch.Shooter,
		IntakeQuality:    arch.IntakeQuality,
		IntakeRate:       arch.IntakeRate,
		IntakeRobustness: arch.IntakeRobustness,
		ClimbLevel:       arch.ClimbLevel,
		ClimbStartTicks:  t.Ticks(arch.ClimbStartTime),
		AutoFuel:         arch.AutoFuel,
		AutoCycles:       arch.AutoCycles,
	}
	for lvl := 1; lvl <= 3; lvl++ {
		c.ClimbSuccess[lvl] = arch.ClimbSuccess(lvl)
	}
	if cfg.Capacity != nil {
		c.Capacity = *cfg.Capacity
	}
	if cfg.Accuracy != nil {
		c.Accuracy = *cfg.Accuracy
	}
	if cfg.Shooter != "" {
		c.Shooter = cfg.Shooter
	}
	if cfg.IntakeQuality != "" {
		c.IntakeQuality = cfg.IntakeQuality
	}
	drive := arch.Drivetrain
	if cfg.Drivetrain != "" {
		drive = cfg.Drivetrain
	}

	sh := t.Shooters[c.Shooter]
	c.Turret = sh.Turret
	c.Multishot = sh.Multishot
	align := sh.Align
	if align > 0 {
		align += t.Drivetrains[drive].ExtraAlign
	}
	c.AlignTicks = t.Ticks(align)

	rate := sh.Rate
	if c.Shooter == arch.Shooter && arch.ShootRate > 0 {
		rate = arch.ShootRate
	}
	idx := t.Indexers[arch.Indexer]
	c.ShootRate = math.Min(rate, idx.Rate)
	c.JamRate = idx.JamRate
	if c.Shooter == noShooter || c.Shooter == "" {
		c.ShootRate = 0
	}

	c.setIntake(t, c.IntakeQuality)
	return c
}

func (c *Capability) setIntake(t tuning.Tuning, quality string) {
	iq := t.Intakes[quality]
	c.IntakeQuality = quality
	c.IntakeMin = iq.SuccessMin
	c.IntakeMax = iq.SuccessMax
	c.Ground = iq.Ground
}

// CanScore reports whether the agent can run a scoring cycle right now.
func (c Capability) CanScore() bool {
	return c.Shooter != noShooter && c.Shooter != "" && c.ShootRate > 0 && c.CycleMean > 0
}

// ScoringPotential is capacity*accuracy/cycle_mean, 0 for non-scorers.
func (c Capability) ScoringPotential() float64 {
	if !c.CanScore() {
		return 0
	}
	return float64(c.Capacity) * c.Accuracy / c.CycleMean
}

// ClimbCapability weights each level's success by its tower points.
func (c Capability) ClimbCapability() float64 {
	return c.ClimbSuccess[3]*30 + c.ClimbSuccess[2]*20 + c.ClimbSuccess[1]*10
}

// Success returns the climb probability at level, 0 outside 1..3.
func (c Capability) Success(level int) float64 {
	if level < 1 || level > 3 {
		return 0
	}
	return c.ClimbSuccess[level]
}
