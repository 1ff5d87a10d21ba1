package simerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
)

func TestClasses_AreDistinct(t *testing.T) {
	cfg := fmt.Errorf("red: %w", Config(protocol.ErrConfigCapacity, "agents[1].capacity", "must be > 0, got %d", 0))
	inv := fmt.Errorf("match 3: %w", Invariant(protocol.ErrInvConservation, 17, "sum %d != %d", 59, 60))

	if !IsConfig(cfg) || IsInvariant(cfg) {
		t.Fatalf("config error misclassified: %v", cfg)
	}
	if !IsInvariant(inv) || IsConfig(inv) {
		t.Fatalf("invariant error misclassified: %v", inv)
	}

	var ce *ConfigError
	if !errors.As(cfg, &ce) || ce.Code != protocol.ErrConfigCapacity {
		t.Fatalf("errors.As config: %+v", ce)
	}
	var ie *InvariantError
	if !errors.As(inv, &ie) || ie.Tick != 17 {
		t.Fatalf("errors.As invariant: %+v", ie)
	}
	if !protocol.IsKnownCode(ce.Code) || !protocol.IsKnownCode(ie.Code) {
		t.Fatalf("codes not registered")
	}
}
