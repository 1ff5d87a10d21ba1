package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrConfigUnknownArchetype,
		ErrConfigCapacity,
		ErrConfigPreset,
		ErrConfigMatchCount,
		ErrConfigAllianceSize,
		ErrConfigRole,
		ErrConfigAuto,
		ErrConfigClimb,
		ErrConfigFailure,
		ErrConfigHumanPlayer,
		ErrConfigCapability,
		ErrConfigTuning,
		ErrInvConservation,
		ErrInvNegativePool,
		ErrInvCapacity,
		ErrInvTransit,
		ErrInvTower,
		ErrInvAgentState,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}
