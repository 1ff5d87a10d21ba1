package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning carries every match constant that is not an archetype capability.
// Durations are seconds; the engine converts them with Ticks.
type Tuning struct {
	TickSeconds float64 `yaml:"tick_seconds"`

	Phases      Phases                   `yaml:"phases"`
	Scoring     Scoring                  `yaml:"scoring"`
	Ranking     Ranking                  `yaml:"ranking"`
	Field       Field                    `yaml:"field"`
	Flight      Flight                   `yaml:"flight"`
	HumanPlayer HumanPlayer              `yaml:"human_player"`
	Shooters    map[string]Shooter       `yaml:"shooters"`
	Indexers    map[string]Indexer       `yaml:"indexers"`
	Intakes     map[string]IntakeQuality `yaml:"intake_quality"`
	// IntakeTiers orders intake qualities best first; a degraded intake drops one tier.
	IntakeTiers []string              `yaml:"intake_tiers"`
	Drivetrains map[string]Drivetrain `yaml:"drivetrains"`
	Failures    Failures              `yaml:"failures"`
	Jams        Jams                  `yaml:"jams"`
	Defense     Defense               `yaml:"defense"`
	Motion      Motion                `yaml:"motion"`
	Push        Push                  `yaml:"push"`
	Congestion  Congestion            `yaml:"congestion"`
	Climb       Climb                 `yaml:"climb"`
}

type Phases struct {
	Opening    float64 `yaml:"opening"`
	Transition float64 `yaml:"transition"`
	Shift      float64 `yaml:"shift"`
	Shifts     int     `yaml:"shifts"`
	Endgame    float64 `yaml:"endgame"`
}

type Scoring struct {
	FuelEligible   int `yaml:"fuel_eligible"`
	FuelIneligible int `yaml:"fuel_ineligible"`
	TowerAutoL1    int `yaml:"tower_auto_l1"`
	TowerL1        int `yaml:"tower_l1"`
	TowerL2        int `yaml:"tower_l2"`
	TowerL3        int `yaml:"tower_l3"`
	Foul           int `yaml:"foul"`
	TechFoul       int `yaml:"tech_foul"`
}

// TowerPoints returns the endgame points for a level (0 for none).
func (s Scoring) TowerPoints(level int) int {
	switch level {
	case 1:
		return s.TowerL1
	case 2:
		return s.TowerL2
	case 3:
		return s.TowerL3
	}
	return 0
}

type Ranking struct {
	Win              int `yaml:"win"`
	Tie              int `yaml:"tie"`
	EnergizedFuel    int `yaml:"energized_fuel"`
	SuperchargedFuel int `yaml:"supercharged_fuel"`
	TraversalTower   int `yaml:"traversal_tower"`
}

// MaxRP is the most ranking points one alliance can earn in a match.
func (r Ranking) MaxRP() int { return r.Win + 3 }

type Field struct {
	TotalFuel          int `yaml:"total_fuel"`
	NeutralFuel        int `yaml:"neutral_fuel"`
	FeedStationFuel    int `yaml:"feed_station_fuel"`
	PreloadPerAlliance int `yaml:"preload_per_alliance"`
	PreloadMaxPerAgent int `yaml:"preload_max_per_agent"`
	TowerCapacity      int `yaml:"tower_capacity"`
}

type Flight struct {
	Flight       float64 `yaml:"flight"`
	HubTransit   float64 `yaml:"hub_transit"`
	MissRecovery float64 `yaml:"miss_recovery"`
	// Jitter bounds the per-batch delay draw to [1-j, 1+j] of the nominal delay.
	Jitter float64 `yaml:"jitter"`
}

type HumanPlayer struct {
	ThrowInterval float64 `yaml:"throw_interval"`
	FeedInterval  float64 `yaml:"feed_interval"`
	ThrowAccuracy float64 `yaml:"throw_accuracy"`
}

type Shooter struct {
	Rate  float64 `yaml:"rate"`
	Align float64 `yaml:"align"`
	// DegradedRate caps the shoot rate once the shooter degrades.
	DegradedRate float64 `yaml:"degraded_rate"`
	Turret       bool    `yaml:"turret"`
	Multishot    bool    `yaml:"multishot"`
}

type Indexer struct {
	Rate    float64 `yaml:"rate"`
	JamRate float64 `yaml:"jam_rate"`
}

type IntakeQuality struct {
	SuccessMin float64 `yaml:"success_min"`
	SuccessMax float64 `yaml:"success_max"`
	Ground     bool    `yaml:"ground"`
}

type Drivetrain struct {
	ExtraAlign float64 `yaml:"extra_align"`
}

type IntakeFailure struct {
	Break   float64 `yaml:"break"`
	Degrade float64 `yaml:"degrade"`
}

type Failures struct {
	TurretStuck         float64                  `yaml:"turret_stuck"`
	TurretStuckAlign    float64                  `yaml:"turret_stuck_align"`
	TurretStuckAccuracy float64                  `yaml:"turret_stuck_accuracy"`
	MultishotDegrade    float64                  `yaml:"multishot_degrade"`
	BasicDegrade        float64                  `yaml:"basic_degrade"`
	ShooterBreak        float64                  `yaml:"shooter_break"`
	Intake              map[string]IntakeFailure `yaml:"intake"`
	DegradedIntakeSpeed float64                  `yaml:"degraded_intake_speed"`
	DegradedIntakeMax   float64                  `yaml:"degraded_intake_success"`
}

type Jams struct {
	ClearSeconds       float64 `yaml:"clear_seconds"`
	IntakeJamRate      float64 `yaml:"intake_jam_rate"`
	IntakeClearSeconds float64 `yaml:"intake_clear_seconds"`
}

type DefenseHit struct {
	CycleHit    float64 `yaml:"cycle_hit"`
	AccuracyHit float64 `yaml:"accuracy_hit"`
}

type ZoneFoul struct {
	Foul     float64 `yaml:"foul"`
	TechFoul float64 `yaml:"tech_foul"`
}

type Defense struct {
	Turret       DefenseHit `yaml:"turret"`
	Fixed        DefenseHit `yaml:"fixed"`
	Neutral      ZoneFoul   `yaml:"neutral"`
	OpponentZone ZoneFoul   `yaml:"opponent_zone"`
	Tower        ZoneFoul   `yaml:"tower"`
	Escalation   []float64  `yaml:"escalation"`
}

// EscalationFor returns the foul-rate multiplier after n fouls already drawn.
func (d Defense) EscalationFor(n int) float64 {
	if len(d.Escalation) == 0 {
		return 1
	}
	if n >= len(d.Escalation) {
		n = len(d.Escalation) - 1
	}
	if n < 0 {
		n = 0
	}
	return d.Escalation[n]
}

type Motion struct {
	PrepositionFromNeutral float64 `yaml:"preposition_from_neutral"`
	PrepositionFromFeed    float64 `yaml:"preposition_from_feed"`
	Crossfield             float64 `yaml:"crossfield"`
	DumpPerUnit            float64 `yaml:"dump_per_unit"`
	AnticipationLead       float64 `yaml:"anticipation_lead"`
	DriveToResourceShare   float64 `yaml:"drive_to_resource_share"`
	DriveToTargetShare     float64 `yaml:"drive_to_target_share"`
	CycleFloor             float64 `yaml:"cycle_floor"`
	FeedStationDrive       float64 `yaml:"feed_station_drive"`
	StockpileDriveMin      float64 `yaml:"stockpile_drive_min"`
	StockpileDriveMax      float64 `yaml:"stockpile_drive_max"`
	AutoDriveMin           float64 `yaml:"auto_drive_min"`
	AutoDriveMax           float64 `yaml:"auto_drive_max"`
	AutoNeutralMin         float64 `yaml:"auto_neutral_min"`
	AutoNeutralMax         float64 `yaml:"auto_neutral_max"`
	AutoReturnMin          float64 `yaml:"auto_return_min"`
	AutoReturnMax          float64 `yaml:"auto_return_max"`
}

type Push struct {
	PerTrip     int     `yaml:"per_trip"`
	Scatter     float64 `yaml:"scatter"`
	TripSeconds float64 `yaml:"trip_seconds"`
}

type Congestion struct {
	Decay              float64 `yaml:"decay"`
	SlowdownMax        float64 `yaml:"slowdown_max"`
	AccuracyPenaltyMax float64 `yaml:"accuracy_penalty_max"`
}

type Climb struct {
	L1Seconds        float64 `yaml:"l1_seconds"`
	L2Seconds        float64 `yaml:"l2_seconds"`
	L3Seconds        float64 `yaml:"l3_seconds"`
	ScaleMin         float64 `yaml:"scale_min"`
	ScaleMax         float64 `yaml:"scale_max"`
	AutoClimbSeconds float64 `yaml:"auto_climb_seconds"`
	AutoDescend      float64 `yaml:"auto_descend_seconds"`
	AutoDriveMin     float64 `yaml:"auto_drive_min"`
	AutoDriveMax     float64 `yaml:"auto_drive_max"`
}

// BaseSeconds returns the nominal climb duration for a level.
func (c Climb) BaseSeconds(level int) float64 {
	switch level {
	case 2:
		return c.L2Seconds
	case 3:
		return c.L3Seconds
	}
	return c.L1Seconds
}

// Ticks converts seconds to whole ticks, rounding to nearest.
func (t Tuning) Ticks(seconds float64) int {
	if seconds <= 0 || t.TickSeconds <= 0 {
		return 0
	}
	return int(math.Round(seconds / t.TickSeconds))
}

// TicksMin1 is Ticks with a floor of one tick, for actions that always take time.
func (t Tuning) TicksMin1(seconds float64) int {
	if n := t.Ticks(seconds); n > 1 {
		return n
	}
	return 1
}

// TotalTicks is the length of the match.
func (t Tuning) TotalTicks() int {
	return t.Ticks(t.Phases.Opening) + t.Ticks(t.Phases.Transition) +
		t.Phases.Shifts*t.Ticks(t.Phases.Shift) + t.Ticks(t.Phases.Endgame)
}

// Digest is the sha256 of the effective tuning; yaml.v3 sorts map keys, so
// equal tunings digest equally.
func (t Tuning) Digest() string {
	b, err := yaml.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Load overlays the YAML file at path on Defaults. Map entries named in the
// file replace the default entry wholesale.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
