package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	persistlog "github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/persistence/log"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/strategy"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(nil)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

const (
	redArgs  = "elite_turret,strong_scorer,everybot"
	blueArgs = "everybot,kitbot_plus,defense_bot"
)

func TestMatchCmd_PrintsScoresheet(t *testing.T) {
	out, err := execute(t, "match", "--red", redArgs, "--blue", blueArgs, "--blue-preset", "2_score_1_defend", "--seed", "3")
	if err != nil {
		t.Fatalf("match: %v\n%s", err, out)
	}
	for _, want := range []string{"seed 3", "winner", "opening won by", "endgame", "elite_turret"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMatchCmd_JSONAndTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "m.jsonl.zst")
	out, err := execute(t, "match", "--red", redArgs, "--blue", blueArgs, "--seed", "9", "--tie-break", "coin_flip", "--trace", path, "--json")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var res match.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode result: %v\n%s", err, out)
	}
	if res.Seed != 9 || res.Digest == "" {
		t.Fatalf("result seed=%d digest=%q", res.Seed, res.Digest)
	}

	tr, err := persistlog.ReadTrace(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if tr.Header.Seed != 9 || tr.Header.TieBreak != "coin_flip" {
		t.Fatalf("header %+v", tr.Header)
	}
	if len(tr.Ticks) != res.Ticks {
		t.Fatalf("trace ticks = %d, want %d", len(tr.Ticks), res.Ticks)
	}
	if tr.Result == nil || tr.Result.Digest != res.Digest {
		t.Fatalf("trace result %+v, want digest %s", tr.Result, res.Digest)
	}
}

func TestMatchCmd_RequiresBothAlliances(t *testing.T) {
	_, err := execute(t, "match", "--red", redArgs)
	if err == nil || !strings.Contains(err.Error(), "--blue") {
		t.Fatalf("err = %v, want missing --blue", err)
	}
}

func TestMatchCmd_ConfigErrorWritesNoTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl.zst")
	_, err := execute(t, "match", "--red", "elite_turret,warp_drive,everybot", "--blue", blueArgs, "--trace", path)
	var ce *simerr.ConfigError
	if !errors.As(err, &ce) || ce.Code != protocol.ErrConfigUnknownArchetype {
		t.Fatalf("err = %v, want unknown archetype", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("trace file exists after config error: %v", statErr)
	}
}

func TestMatchCmd_BadTieBreak(t *testing.T) {
	if _, err := execute(t, "match", "--red", redArgs, "--blue", blueArgs, "--tie-break", "rock_paper"); err == nil {
		t.Fatalf("expected tie-break error")
	}
}

func TestMonteCarloCmd_JSON(t *testing.T) {
	out, err := execute(t, "montecarlo", "--red", redArgs, "--blue", blueArgs, "--runs", "20", "--workers", "2", "--seed", "5", "--json")
	if err != nil {
		t.Fatalf("montecarlo: %v", err)
	}
	var rep monteCarloReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if rep.Completed != 20 || rep.Requested != 20 || rep.Workers != 2 {
		t.Fatalf("completed=%d requested=%d workers=%d", rep.Completed, rep.Requested, rep.Workers)
	}
	for a, p := range rep.Percentiles {
		if p.P10 > p.P50 || p.P50 > p.P90 {
			t.Fatalf("alliance %d percentiles out of order: %+v", a, p)
		}
	}
}

func TestMonteCarloCmd_TextHistogram(t *testing.T) {
	out, err := execute(t, "mc", "--red", redArgs, "--blue", blueArgs, "-n", "8")
	if err != nil {
		t.Fatalf("montecarlo: %v", err)
	}
	for _, want := range []string{"matches 8/8", "win rate", "red score histogram", "blue score histogram", "#"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMonteCarloCmd_RejectsZeroRuns(t *testing.T) {
	_, err := execute(t, "montecarlo", "--red", redArgs, "--blue", blueArgs, "--runs", "0")
	var ce *simerr.ConfigError
	if !errors.As(err, &ce) || ce.Code != protocol.ErrConfigMatchCount {
		t.Fatalf("err = %v, want match count error", err)
	}
}

func TestCounterCmd(t *testing.T) {
	out, err := execute(t, "counter", "--opponent", "kitbot_base,kitbot_base,kitbot_base", "--json")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	var rec strategy.Recommendation
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Preset != alliance.FullOffense || rec.StrongOrBetter != 0 {
		t.Fatalf("recommendation %+v", rec)
	}

	if _, err := execute(t, "counter", "--opponent", "kitbot_base,hovercraft"); !simerr.IsConfig(err) {
		t.Fatalf("err = %v, want config error", err)
	}
}

func TestPlanCmd_DefenderTargetsBestOpponent(t *testing.T) {
	out, err := execute(t, "plan",
		"--alliance", "elite_turret,strong_scorer,defense_bot",
		"--alliance-preset", "2_score_1_defend",
		"--opponent", "kitbot_base,elite_turret,kitbot_base",
		"--json")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var rep planReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	def := rep.Plan.Slots[2]
	if !def.Defends() || def.DefenseTarget != 1 {
		t.Fatalf("defender slot %+v", def)
	}
	if rep.Plan.HumanPlayer != alliance.HPFeed {
		t.Fatalf("human player = %s", rep.Plan.HumanPlayer)
	}
}

func TestPlanCmd_AllianceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.yaml")
	doc := `name: test
preset: deny_and_score
agents:
  - archetype: elite_multishot
  - archetype: everybot
    climb_target: 1
  - archetype: kitbot_plus
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "plan", "--alliance-file", path)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "preset deny_and_score") || !strings.Contains(out, "elite_multishot") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCatalogCmd(t *testing.T) {
	out, err := execute(t, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, want := range []string{"elite_turret", "kitbot_base", "defense_bot", "digest "} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRootCmd_MissingTuningFile(t *testing.T) {
	_, err := execute(t, "catalog", "--tuning", filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}
}
