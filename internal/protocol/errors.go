package protocol

const (
	// Configuration errors, raised before any tick runs.
	ErrConfigUnknownArchetype = "E_CONFIG_UNKNOWN_ARCHETYPE"
	ErrConfigCapacity         = "E_CONFIG_CAPACITY"
	ErrConfigPreset           = "E_CONFIG_PRESET"
	ErrConfigMatchCount       = "E_CONFIG_MATCH_COUNT"
	ErrConfigAllianceSize     = "E_CONFIG_ALLIANCE_SIZE"
	ErrConfigRole             = "E_CONFIG_ROLE"
	ErrConfigAuto             = "E_CONFIG_AUTO"
	ErrConfigClimb            = "E_CONFIG_CLIMB"
	ErrConfigFailure          = "E_CONFIG_FAILURE"
	ErrConfigHumanPlayer      = "E_CONFIG_HUMAN_PLAYER"
	ErrConfigCapability       = "E_CONFIG_CAPABILITY"
	ErrConfigTuning           = "E_CONFIG_TUNING"

	// Engine invariants. Any of these aborts the match.
	ErrInvConservation = "E_INV_CONSERVATION"
	ErrInvNegativePool = "E_INV_NEGATIVE_POOL"
	ErrInvCapacity     = "E_INV_CAPACITY"
	ErrInvTransit      = "E_INV_TRANSIT"
	ErrInvTower        = "E_INV_TOWER"
	ErrInvAgentState   = "E_INV_AGENT_STATE"
)

var knownCodes = map[string]struct{}{
	ErrConfigUnknownArchetype: {},
	ErrConfigCapacity:         {},
	ErrConfigPreset:           {},
	ErrConfigMatchCount:       {},
	ErrConfigAllianceSize:     {},
	ErrConfigRole:             {},
	ErrConfigAuto:             {},
	ErrConfigClimb:            {},
	ErrConfigFailure:          {},
	ErrConfigHumanPlayer:      {},
	ErrConfigCapability:       {},
	ErrConfigTuning:           {},
	ErrInvConservation:        {},
	ErrInvNegativePool:        {},
	ErrInvCapacity:            {},
	ErrInvTransit:             {},
	ErrInvTower:               {},
	ErrInvAgentState:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
