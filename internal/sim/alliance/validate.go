package alliance

import (
	"fmt"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// Validate checks c against the catalog and tuning tables. Every failure is a
// *simerr.ConfigError.
func (c Config) Validate(cat *catalogs.Catalog, t tuning.Tuning) error {
	c.Agents = append([]AgentConfig(nil), c.Agents...)
	c.Normalize()
	if err := c.validateShape(); err != nil {
		return err
	}
	for i, a := range c.Agents {
		field := func(name string) string { return fmt.Sprintf("agents[%d].%s", i, name) }
		arch, ok := cat.Lookup(a.Archetype)
		if !ok {
			return simerr.Config(protocol.ErrConfigUnknownArchetype, field("archetype"), "unknown archetype %q", a.Archetype)
		}
		if a.Capacity == nil && arch.Capacity <= 0 {
			return simerr.Config(protocol.ErrConfigCapacity, field("capacity"), "archetype %s has capacity %d", arch.ID, arch.Capacity)
		}

		shooter := arch.Shooter
		if a.Shooter != "" {
			shooter = a.Shooter
		}
		if _, ok := t.Shooters[shooter]; !ok {
			return simerr.Config(protocol.ErrConfigCapability, field("shooter"), "unknown shooter %q", shooter)
		}
		if _, ok := t.Indexers[arch.Indexer]; !ok {
			return simerr.Config(protocol.ErrConfigCapability, field("indexer"), "unknown indexer %q", arch.Indexer)
		}
		drive := arch.Drivetrain
		if a.Drivetrain != "" {
			drive = a.Drivetrain
		}
		if _, ok := t.Drivetrains[drive]; !ok {
			return simerr.Config(protocol.ErrConfigCapability, field("drivetrain"), "unknown drivetrain %q", drive)
		}
		intake := arch.IntakeQuality
		if a.IntakeQuality != "" {
			intake = a.IntakeQuality
		}
		if _, ok := t.Intakes[intake]; !ok {
			return simerr.Config(protocol.ErrConfigCapability, field("intake_quality"), "unknown intake quality %q", intake)
		}
		if arch.IntakeRobustness != "" {
			if _, ok := t.Failures.Intake[arch.IntakeRobustness]; !ok {
				return simerr.Config(protocol.ErrConfigCapability, field("archetype"), "unknown intake robustness %q", arch.IntakeRobustness)
			}
		}
		for j, f := range a.Failures {
			if f.AtTick >= t.TotalTicks() {
				return simerr.Config(protocol.ErrConfigFailure, fmt.Sprintf("agents[%d].failures[%d].at_tick", i, j),
					"tick %d is past the end of the match (%d ticks)", f.AtTick, t.TotalTicks())
			}
		}
	}
	return nil
}

// validateShape checks everything that does not depend on the catalog.
func (c Config) validateShape() error {
	if !c.Preset.Valid() {
		return simerr.Config(protocol.ErrConfigPreset, "preset", "unknown strategy preset %q", c.Preset)
	}
	if c.HumanPlayer != "" && !c.HumanPlayer.Valid() {
		return simerr.Config(protocol.ErrConfigHumanPlayer, "human_player", "unknown human player mode %q", c.HumanPlayer)
	}
	if len(c.Agents) != Size {
		return simerr.Config(protocol.ErrConfigAllianceSize, "agents", "need %d agents, got %d", Size, len(c.Agents))
	}
	climbers := 0
	for i, a := range c.Agents {
		field := func(name string) string { return fmt.Sprintf("agents[%d].%s", i, name) }
		if a.Archetype == "" {
			return simerr.Config(protocol.ErrConfigUnknownArchetype, field("archetype"), "missing archetype")
		}
		if a.Capacity != nil && *a.Capacity <= 0 {
			return simerr.Config(protocol.ErrConfigCapacity, field("capacity"), "must be > 0, got %d", *a.Capacity)
		}
		if a.Accuracy != nil && (*a.Accuracy < 0 || *a.Accuracy > 1) {
			return simerr.Config(protocol.ErrConfigCapability, field("accuracy"), "must be in [0,1], got %v", *a.Accuracy)
		}
		if a.Roles != nil {
			if !a.Roles.Active.Valid() {
				return simerr.Config(protocol.ErrConfigRole, field("roles.active"), "unknown role %q", a.Roles.Active)
			}
			if !a.Roles.Inactive.Valid() {
				return simerr.Config(protocol.ErrConfigRole, field("roles.inactive"), "unknown role %q", a.Roles.Inactive)
			}
		}
		if !a.Auto.Valid() {
			return simerr.Config(protocol.ErrConfigAuto, field("auto"), "unknown auto action %q", a.Auto)
		}
		if a.Auto == AutoClimb {
			climbers++
		}
		if a.ClimbTarget != nil && (*a.ClimbTarget < 0 || *a.ClimbTarget > 3) {
			return simerr.Config(protocol.ErrConfigClimb, field("climb_target"), "must be in 0..3, got %d", *a.ClimbTarget)
		}
		if a.DefenseTarget != nil && (*a.DefenseTarget < 0 || *a.DefenseTarget >= Size) {
			return simerr.Config(protocol.ErrConfigRole, field("defense_target"), "must be an opponent slot in 0..%d, got %d", Size-1, *a.DefenseTarget)
		}
		seen := map[Mechanism]bool{}
		for j, f := range a.Failures {
			ff := fmt.Sprintf("agents[%d].failures[%d]", i, j)
			if seen[f.Mechanism] {
				return simerr.Config(protocol.ErrConfigFailure, ff, "duplicate failure for %s", f.Mechanism)
			}
			seen[f.Mechanism] = true
			if f.AtTick < 0 {
				return simerr.Config(protocol.ErrConfigFailure, ff+".at_tick", "must be >= 0, got %d", f.AtTick)
			}
			switch f.Mechanism {
			case MechIntake, MechShooter:
				if f.Outcome != Broken && f.Outcome != Degraded {
					return simerr.Config(protocol.ErrConfigFailure, ff+".outcome", "%s cannot be %q", f.Mechanism, f.Outcome)
				}
			case MechTurret:
				if f.Outcome != Stuck {
					return simerr.Config(protocol.ErrConfigFailure, ff+".outcome", "turret can only be stuck, got %q", f.Outcome)
				}
			default:
				return simerr.Config(protocol.ErrConfigFailure, ff+".mechanism", "unknown mechanism %q", f.Mechanism)
			}
		}
	}
	if climbers > 1 {
		return simerr.Config(protocol.ErrConfigAuto, "agents", "at most one auto climber, got %d", climbers)
	}
	return nil
}
