package tuning

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
)

func TestDefaults_MatchLayout(t *testing.T) {
	tu := Defaults()
	if err := tu.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if got := tu.TotalTicks(); got != 320 {
		t.Fatalf("TotalTicks = %d, want 320", got)
	}
	if got := tu.Ticks(tu.Phases.Shift); got != 50 {
		t.Fatalf("shift ticks = %d, want 50", got)
	}
	if got := tu.TicksMin1(0.1); got != 1 {
		t.Fatalf("TicksMin1(0.1) = %d, want 1", got)
	}
	if got := tu.Ranking.MaxRP(); got != 6 {
		t.Fatalf("MaxRP = %d, want 6", got)
	}
	if tu.Defense.EscalationFor(0) != 1.0 || tu.Defense.EscalationFor(9) != 2.0 {
		t.Fatalf("escalation lookup wrong")
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(p, []byte("human_player:\n  throw_accuracy: 0.7\n  throw_interval: 4\n  feed_interval: 2.5\nphases:\n  opening: 20\n  transition: 10\n  shift: 20\n  shifts: 4\n  endgame: 30\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.HumanPlayer.ThrowAccuracy != 0.7 {
		t.Fatalf("throw accuracy = %v", tu.HumanPlayer.ThrowAccuracy)
	}
	if tu.TotalTicks() != 40+20+4*40+60 {
		t.Fatalf("TotalTicks = %d", tu.TotalTicks())
	}
	if tu.Field.TotalFuel != 60 {
		t.Fatalf("untouched default lost: total fuel = %d", tu.Field.TotalFuel)
	}
	if tu.Digest() == Defaults().Digest() {
		t.Fatalf("digest did not change with tuning")
	}
}

func TestLoad_RepoSample(t *testing.T) {
	tu, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if tu.Digest() != Defaults().Digest() {
		t.Fatalf("sample should restate the defaults")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Tuning){
		"zero tick":        func(tu *Tuning) { tu.TickSeconds = 0 },
		"fuel mismatch":    func(tu *Tuning) { tu.Field.TotalFuel = 59 },
		"probability":      func(tu *Tuning) { tu.HumanPlayer.ThrowAccuracy = 1.2 },
		"empty escalation": func(tu *Tuning) { tu.Defense.Escalation = nil },
		"unknown tier":     func(tu *Tuning) { tu.IntakeTiers = append(tu.IntakeTiers, "telekinesis") },
		"five shifts":      func(tu *Tuning) { tu.Phases.Shifts = 5 },
	}
	for name, mutate := range cases {
		tu := Defaults()
		mutate(&tu)
		err := tu.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !errors.Is(err, simerr.ErrConfig) {
			t.Fatalf("%s: want config error, got %v", name, err)
		}
	}
}
