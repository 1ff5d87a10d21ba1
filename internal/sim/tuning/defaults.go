package tuning

// Defaults returns the 2026 game constants. Each call builds fresh maps so
// callers may mutate the result.
func Defaults() Tuning {
	return Tuning{
		TickSeconds: 0.5,
		Phases: Phases{
			Opening:    20,
			Transition: 10,
			Shift:      25,
			Shifts:     4,
			Endgame:    30,
		},
		Scoring: Scoring{
			FuelEligible:   1,
			FuelIneligible: 0,
			TowerAutoL1:    15,
			TowerL1:        10,
			TowerL2:        20,
			TowerL3:        30,
			Foul:           5,
			TechFoul:       12,
		},
		Ranking: Ranking{
			Win:              3,
			Tie:              1,
			EnergizedFuel:    100,
			SuperchargedFuel: 360,
			TraversalTower:   50,
		},
		Field: Field{
			TotalFuel:          60,
			NeutralFuel:        20,
			FeedStationFuel:    10,
			PreloadPerAlliance: 10,
			PreloadMaxPerAgent: 8,
			TowerCapacity:      3,
		},
		Flight: Flight{
			Flight:       1.0,
			HubTransit:   1.5,
			MissRecovery: 3.0,
			Jitter:       0.2,
		},
		HumanPlayer: HumanPlayer{
			ThrowInterval: 4.0,
			FeedInterval:  2.5,
			ThrowAccuracy: 0.55,
		},
		Shooters: map[string]Shooter{
			"turret": {Rate: 3, Align: 0, DegradedRate: 2, Turret: true},
			"single": {Rate: 3, Align: 1.5, DegradedRate: 2},
			"double": {Rate: 6.5, Align: 1.5, DegradedRate: 3, Multishot: true},
			"triple": {Rate: 9, Align: 1.5, DegradedRate: 6.5, Multishot: true},
			"dumper": {Rate: 15, Align: 0, DegradedRate: 10},
			"none":   {},
		},
		Indexers: map[string]Indexer{
			"spindexer":   {Rate: 10, JamRate: 0.005},
			"serializer":  {Rate: 8, JamRate: 0.005},
			"conveyor":    {Rate: 6, JamRate: 0.01},
			"gravity_fed": {Rate: 15, JamRate: 0.075},
			"none":        {},
		},
		Intakes: map[string]IntakeQuality{
			"touch_and_go":     {SuccessMin: 0.95, SuccessMax: 0.99, Ground: true},
			"slow_pickup":      {SuccessMin: 0.80, SuccessMax: 0.90, Ground: true},
			"push_around":      {SuccessMin: 0.50, SuccessMax: 0.70, Ground: true},
			"no_ground_pickup": {},
		},
		IntakeTiers: []string{"touch_and_go", "slow_pickup", "push_around", "no_ground_pickup"},
		Drivetrains: map[string]Drivetrain{
			"swerve": {},
			"tank":   {ExtraAlign: 1.5},
		},
		Failures: Failures{
			TurretStuck:         0.12,
			TurretStuckAlign:    1.5,
			TurretStuckAccuracy: 0.20,
			MultishotDegrade:    0.12,
			BasicDegrade:        0.04,
			ShooterBreak:        0.01,
			Intake: map[string]IntakeFailure{
				"high":   {Break: 0.02, Degrade: 0.07},
				"medium": {Break: 0.06, Degrade: 0.15},
				"low":    {Break: 0.06, Degrade: 0.15},
			},
			DegradedIntakeSpeed: 0.5,
			DegradedIntakeMax:   0.60,
		},
		Jams: Jams{
			ClearSeconds:       3.5,
			IntakeJamRate:      0.10,
			IntakeClearSeconds: 3.0,
		},
		Defense: Defense{
			Turret:       DefenseHit{CycleHit: 0.35, AccuracyHit: 0.08},
			Fixed:        DefenseHit{CycleHit: 0.50, AccuracyHit: 0.20},
			Neutral:      ZoneFoul{Foul: 0.08, TechFoul: 0.015},
			OpponentZone: ZoneFoul{Foul: 0.20, TechFoul: 0.06},
			Tower:        ZoneFoul{Foul: 0.25, TechFoul: 0.10},
			Escalation:   []float64{1.0, 1.5, 2.0},
		},
		Motion: Motion{
			PrepositionFromNeutral: 2.5,
			PrepositionFromFeed:    3.0,
			Crossfield:             5.0,
			DumpPerUnit:            0.3,
			AnticipationLead:       3.0,
			DriveToResourceShare:   0.25,
			DriveToTargetShare:     0.20,
			CycleFloor:             0.5,
			FeedStationDrive:       2.0,
			StockpileDriveMin:      2.0,
			StockpileDriveMax:      3.5,
			AutoDriveMin:           1.0,
			AutoDriveMax:           2.0,
			AutoNeutralMin:         2.0,
			AutoNeutralMax:         3.0,
			AutoReturnMin:          1.5,
			AutoReturnMax:          2.5,
		},
		Push: Push{
			PerTrip:     5,
			Scatter:     0.20,
			TripSeconds: 7.0,
		},
		Congestion: Congestion{
			Decay:              0.5,
			SlowdownMax:        0.5,
			AccuracyPenaltyMax: 0.10,
		},
		Climb: Climb{
			L1Seconds:        3,
			L2Seconds:        5,
			L3Seconds:        7,
			ScaleMin:         0.8,
			ScaleMax:         1.2,
			AutoClimbSeconds: 4,
			AutoDescend:      3,
			AutoDriveMin:     1.5,
			AutoDriveMax:     2.5,
		},
	}
}
