package main

import (
	"flag"
	"fmt"
	"os"

	persistlog "github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/persistence/log"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

func main() {
	var (
		tracePath   = flag.String("trace", "", "path to .jsonl.zst match trace")
		tuningPath  = flag.String("tuning", "", "tuning YAML the match was played with (optional)")
		catalogPath = flag.String("catalog", "", "archetype catalog the match was played with (optional)")
		fromTick    = flag.Int("from_tick", 0, "start verifying from tick (inclusive, optional)")
	)
	flag.Parse()

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "missing -trace")
		os.Exit(2)
	}

	tr, err := persistlog.ReadTrace(*tracePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read trace:", err)
		os.Exit(1)
	}
	h := tr.Header
	fmt.Printf("trace v%s seed=%d ticks=%d recorded=%d tie_break=%s\n",
		h.Version, h.Seed, h.Ticks, len(tr.Ticks), phaseTieBreak(h.TieBreak))

	env := match.DefaultEnv()
	if *tuningPath != "" {
		if env.Tuning, err = tuning.Load(*tuningPath); err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
	}
	if *catalogPath != "" {
		if env.Catalog, err = catalogs.Load(*catalogPath); err != nil {
			fmt.Fprintln(os.Stderr, "load catalog:", err)
			os.Exit(1)
		}
	}
	if d := env.Tuning.Digest(); h.TuningDigest != "" && d != h.TuningDigest {
		fmt.Fprintf(os.Stderr, "tuning digest mismatch: trace=%s have=%s\n", h.TuningDigest, d)
		os.Exit(1)
	}
	if h.CatalogDigest != "" && env.Catalog.Digest != h.CatalogDigest {
		fmt.Fprintf(os.Stderr, "catalog digest mismatch: trace=%s have=%s\n", h.CatalogDigest, env.Catalog.Digest)
		os.Exit(1)
	}

	red, blue, err := persistlog.Alliances(h)
	if err != nil {
		fmt.Fprintln(os.Stderr, "alliances:", err)
		os.Exit(1)
	}
	tb, err := phase.ParseTieBreak(h.TieBreak)
	if err != nil {
		fmt.Fprintln(os.Stderr, "header:", err)
		os.Exit(1)
	}

	v := &verifier{want: tr.Ticks, from: *fromTick}
	res, runErr := match.RunSingleMatch(red, blue, h.Seed, match.WithEnv(env), match.WithTieBreak(tb), match.WithObserver(v))
	if runErr != nil && !simerr.IsInvariant(runErr) {
		fmt.Fprintln(os.Stderr, "replay:", runErr)
		os.Exit(1)
	}
	if v.err != nil {
		fmt.Fprintln(os.Stderr, "replay:", v.err)
		os.Exit(1)
	}
	if v.seen != len(tr.Ticks) {
		fmt.Fprintf(os.Stderr, "replay: re-simulated %d ticks, trace has %d\n", v.seen, len(tr.Ticks))
		os.Exit(1)
	}
	if tr.Result != nil {
		if err := compareResult(*tr.Result, persistlog.NewResult(res, runErr)); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintln(os.Stderr, "warning: trace has no result line (truncated)")
	}
	fmt.Printf("replay ok: checked=%d ticks (winner=%s red=%d blue=%d)\n", v.checked, res.Winner, res.Red().Score, res.Blue().Score)
}

// verifier compares each re-simulated tick with the recorded one and keeps
// the first mismatch.
type verifier struct {
	want    []protocol.TickRecord
	from    int
	seen    int
	checked int
	err     error
}

func (v *verifier) WriteTick(rec protocol.TickRecord) error {
	i := v.seen
	v.seen++
	if v.err != nil || rec.Tick < v.from {
		return nil
	}
	if i >= len(v.want) {
		// Extra ticks are reported by the caller once the match ends.
		return nil
	}
	w := v.want[i]
	switch {
	case w.Tick != rec.Tick:
		v.err = fmt.Errorf("record %d: tick %d, trace has %d", i, rec.Tick, w.Tick)
	case w.Digest != rec.Digest:
		v.err = fmt.Errorf("digest mismatch at tick %d (%s): trace=%s got=%s", rec.Tick, rec.Phase, w.Digest, rec.Digest)
	}
	if v.err == nil {
		v.checked++
	}
	return nil
}

func compareResult(want, got protocol.ResultRecord) error {
	if want.Digest != got.Digest {
		return fmt.Errorf("final digest mismatch: trace=%s got=%s", want.Digest, got.Digest)
	}
	if want.Winner != got.Winner || want.RedScore != got.RedScore || want.BlueScore != got.BlueScore {
		return fmt.Errorf("result mismatch: trace=%s %d-%d got=%s %d-%d",
			want.Winner, want.RedScore, want.BlueScore, got.Winner, got.RedScore, got.BlueScore)
	}
	if want.Aborted != got.Aborted {
		return fmt.Errorf("abort mismatch: trace=%v got=%v (%s)", want.Aborted, got.Aborted, got.Error)
	}
	return nil
}

func phaseTieBreak(s string) string {
	if s == "" {
		return phase.TieBreakRedDefault.String()
	}
	return s
}
