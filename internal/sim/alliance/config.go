// Package alliance holds the per-alliance match input: three agent configs,
// the strategy preset and the human player mode.
package alliance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Size is the number of agents on an alliance.
const Size = 3

type Preset string

const (
	FullOffense    Preset = "full_offense"
	TwoScoreOneDef Preset = "2_score_1_defend"
	OneScoreTwoDef Preset = "1_score_2_defend"
	DenyAndScore   Preset = "deny_and_score"
	Surge          Preset = "surge"
)

// Presets lists the strategy presets in display order.
var Presets = []Preset{FullOffense, TwoScoreOneDef, OneScoreTwoDef, DenyAndScore, Surge}

func (p Preset) Valid() bool {
	for _, q := range Presets {
		if p == q {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleScore     Role = "score"
	RoleStockpile Role = "stockpile"
	RoleDefend    Role = "defend"
	RoleDeny      Role = "deny_shared_pool"
	RolePush      Role = "push_resource"
)

func (r Role) Valid() bool {
	switch r {
	case RoleScore, RoleStockpile, RoleDefend, RoleDeny, RolePush:
		return true
	}
	return false
}

// Holding reports whether the role keeps fuel on board for a later window.
func (r Role) Holding() bool { return r == RoleStockpile || r == RoleDeny }

type AutoAction string

const (
	AutoScore   AutoAction = "score"
	AutoClimb   AutoAction = "climb"
	AutoDisrupt AutoAction = "disrupt"
)

func (a AutoAction) Valid() bool {
	return a == AutoScore || a == AutoClimb || a == AutoDisrupt
}

type HumanPlayerMode string

const (
	HPThrow HumanPlayerMode = "throw"
	HPFeed  HumanPlayerMode = "feed"
	HPMixed HumanPlayerMode = "mixed"
)

func (m HumanPlayerMode) Valid() bool {
	return m == HPThrow || m == HPFeed || m == HPMixed
}

type Mechanism string

const (
	MechIntake  Mechanism = "intake"
	MechShooter Mechanism = "shooter"
	MechTurret  Mechanism = "turret"
)

type Outcome string

const (
	Broken   Outcome = "broken"
	Degraded Outcome = "degraded"
	Stuck    Outcome = "stuck"
)

// ForcedFailure pins a mechanism outcome to a tick, replacing the random draw
// for that mechanism.
type ForcedFailure struct {
	Mechanism Mechanism `yaml:"mechanism" toml:"mechanism" json:"mechanism"`
	Outcome   Outcome   `yaml:"outcome" toml:"outcome" json:"outcome"`
	AtTick    int       `yaml:"at_tick" toml:"at_tick" json:"at_tick"`
}

// RolePlan overrides the preset's roles for one slot.
type RolePlan struct {
	Active   Role `yaml:"active" toml:"active" json:"active"`
	Inactive Role `yaml:"inactive" toml:"inactive" json:"inactive"`
}

type AgentConfig struct {
	Archetype string `yaml:"archetype" toml:"archetype" json:"archetype"`

	// Capability overrides; zero values keep the archetype's.
	Capacity      *int     `yaml:"capacity,omitempty" toml:"capacity,omitempty" json:"capacity,omitempty"`
	Accuracy      *float64 `yaml:"accuracy,omitempty" toml:"accuracy,omitempty" json:"accuracy,omitempty"`
	Drivetrain    string   `yaml:"drivetrain,omitempty" toml:"drivetrain,omitempty" json:"drivetrain,omitempty"`
	Shooter       string   `yaml:"shooter,omitempty" toml:"shooter,omitempty" json:"shooter,omitempty"`
	IntakeQuality string   `yaml:"intake_quality,omitempty" toml:"intake_quality,omitempty" json:"intake_quality,omitempty"`

	Roles         *RolePlan       `yaml:"roles,omitempty" toml:"roles,omitempty" json:"roles,omitempty"`
	ClimbTarget   *int            `yaml:"climb_target,omitempty" toml:"climb_target,omitempty" json:"climb_target,omitempty"`
	Auto          AutoAction      `yaml:"auto,omitempty" toml:"auto,omitempty" json:"auto,omitempty"`
	DefenseTarget *int            `yaml:"defense_target,omitempty" toml:"defense_target,omitempty" json:"defense_target,omitempty"`
	Preposition   *bool           `yaml:"preposition,omitempty" toml:"preposition,omitempty" json:"preposition,omitempty"`
	Failures      []ForcedFailure `yaml:"failures,omitempty" toml:"failures,omitempty" json:"failures,omitempty"`
}

type Config struct {
	Name           string          `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Preset         Preset          `yaml:"preset" toml:"preset" json:"preset"`
	HumanPlayer    HumanPlayerMode `yaml:"human_player,omitempty" toml:"human_player,omitempty" json:"human_player,omitempty"`
	DisableDefense bool            `yaml:"disable_defense,omitempty" toml:"disable_defense,omitempty" json:"disable_defense,omitempty"`
	Agents         []AgentConfig   `yaml:"agents" toml:"agents" json:"agents"`
}

// New builds a config from archetype labels with default per-agent settings.
func New(preset Preset, archetypes ...string) Config {
	c := Config{Preset: preset}
	for _, a := range archetypes {
		c.Agents = append(c.Agents, AgentConfig{Archetype: a})
	}
	c.Normalize()
	return c
}

// ParseLabels splits "a,b,c" into trimmed archetype labels.
func ParseLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadFile reads an alliance file (.yaml, .yml or .toml), normalizes it and
// checks everything that does not need the archetype catalog.
func LoadFile(path string) (Config, error) {
	cfg := Config{Preset: FullOffense}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", name, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", name, err)
		}
	default:
		return cfg, fmt.Errorf("%s: unsupported alliance file type", name)
	}
	cfg.Normalize()
	if err := cfg.validateShape(); err != nil {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Normalize lowercases enum fields and fills the auto action and preset
// defaults.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.Preset = Preset(strings.ToLower(strings.TrimSpace(string(c.Preset))))
	if c.Preset == "" {
		c.Preset = FullOffense
	}
	c.HumanPlayer = HumanPlayerMode(strings.ToLower(strings.TrimSpace(string(c.HumanPlayer))))
	for i := range c.Agents {
		a := &c.Agents[i]
		a.Archetype = strings.TrimSpace(a.Archetype)
		a.Auto = AutoAction(strings.ToLower(strings.TrimSpace(string(a.Auto))))
		if a.Auto == "" {
			a.Auto = AutoScore
		}
		a.Drivetrain = strings.ToLower(strings.TrimSpace(a.Drivetrain))
		a.Shooter = strings.ToLower(strings.TrimSpace(a.Shooter))
		a.IntakeQuality = strings.ToLower(strings.TrimSpace(a.IntakeQuality))
	}
}

// Labels returns the archetype label per slot.
func (c Config) Labels() []string {
	out := make([]string, len(c.Agents))
	for i, a := range c.Agents {
		out[i] = a.Archetype
	}
	return out
}

// PrepositionEnabled defaults to true when unset.
func (a AgentConfig) PrepositionEnabled() bool {
	return a.Preposition == nil || *a.Preposition
}
