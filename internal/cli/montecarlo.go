package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/montecarlo"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

type monteCarloOptions struct {
	matchup *matchupFlags
	runs    int
	seed    int64
	workers int
	hist    bool
}

func newMonteCarloCmd(g *globals) *cobra.Command {
	o := &monteCarloOptions{}
	cmd := &cobra.Command{
		Use:     "montecarlo",
		Aliases: []string{"mc"},
		Short:   "Play many matches and summarize the outcomes",
		Example: `  frcsim montecarlo --red elite_turret,strong_scorer,everybot --blue everybot,everybot,everybot --runs 2000 --seed 11`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonteCarlo(cmd, g, o)
		},
	}
	o.matchup = newMatchupFlags(cmd)
	cmd.Flags().IntVarP(&o.runs, "runs", "n", 1000, "number of matches")
	cmd.Flags().Int64Var(&o.seed, "seed", 1, "run seed; match i uses a seed derived from it")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "matches in flight (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&o.hist, "histogram", true, "print the score histograms")
	return cmd
}

// percentiles is the JSON summary of the score distribution.
type percentiles struct {
	P10 int `json:"p10"`
	P50 int `json:"p50"`
	P90 int `json:"p90"`
}

type monteCarloReport struct {
	montecarlo.Stats
	Percentiles [2]percentiles `json:"percentiles"`
	Cancelled   bool           `json:"cancelled,omitempty"`
}

func runMonteCarlo(cmd *cobra.Command, g *globals, o *monteCarloOptions) error {
	env, err := g.env()
	if err != nil {
		return err
	}
	red, blue, err := o.matchup.configs()
	if err != nil {
		return err
	}
	tb, err := phase.ParseTieBreak(o.matchup.tieBreak)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stats, runErr := montecarlo.Run(ctx, red, blue, o.runs, o.seed,
		montecarlo.WithWorkers(o.workers),
		montecarlo.WithLogger(g.logger),
		montecarlo.WithMatchOptions(match.WithEnv(env), match.WithTieBreak(tb)),
	)
	cancelled := errors.Is(runErr, context.Canceled)
	if runErr != nil && !cancelled {
		return runErr
	}
	if cancelled {
		g.logf("montecarlo: interrupted after %d of %d matches", stats.Completed, stats.Requested)
	}

	out := cmd.OutOrStdout()
	if g.jsonOut {
		rep := monteCarloReport{Stats: stats, Cancelled: cancelled}
		for _, a := range team.Both {
			rep.Percentiles[a] = percentiles{
				P10: stats.Percentile(a, 10),
				P50: stats.Percentile(a, 50),
				P90: stats.Percentile(a, 90),
			}
		}
		return encodeJSON(out, rep)
	}
	printStats(out, stats, red.Labels(), blue.Labels())
	if o.hist {
		for _, a := range team.Both {
			writeln(out, "")
			printHistogram(out, a, stats.Histogram(a))
		}
	}
	return nil
}

func printStats(w io.Writer, s montecarlo.Stats, red, blue []string) {
	writeln(w, "matches %d/%d  seed %d  workers %d", s.Completed, s.Requested, s.Seed, s.Workers)
	writeln(w, "red  %s", strings.Join(red, ","))
	writeln(w, "blue %s", strings.Join(blue, ","))
	writeln(w, "")
	r, b := s.Alliances[team.Red], s.Alliances[team.Blue]
	writeln(w, "%-16s %9s %9s", "", "red", "blue")
	writeln(w, "%-16s %9.3f %9.3f", "win rate", r.WinRate, b.WinRate)
	writeln(w, "%-16s %9.1f %9.1f", "score mean", r.Score.Mean, b.Score.Mean)
	writeln(w, "%-16s %9.1f %9.1f", "score stddev", r.Score.StdDev(), b.Score.StdDev())
	for _, p := range []int{10, 50, 90} {
		writeln(w, "%-16s %9d %9d", fmt.Sprintf("score p%d", p), s.Percentile(team.Red, float64(p)), s.Percentile(team.Blue, float64(p)))
	}
	writeln(w, "%-16s %9.1f %9.1f", "fuel mean", r.Fuel.Mean, b.Fuel.Mean)
	writeln(w, "%-16s %9.1f %9.1f", "tower mean", r.Tower.Mean, b.Tower.Mean)
	writeln(w, "%-16s %9.1f %9.1f", "penalties mean", r.Penalties.Mean, b.Penalties.Mean)
	writeln(w, "%-16s %9.2f %9.2f", "rp mean", r.RP.Mean, b.RP.Mean)
	writeln(w, "%-16s %9.3f %9.3f", "energized", r.EnergizedRate, b.EnergizedRate)
	writeln(w, "%-16s %9.3f %9.3f", "supercharged", r.SuperchargedRate, b.SuperchargedRate)
	writeln(w, "%-16s %9.3f %9.3f", "traversal", r.TraversalRate, b.TraversalRate)
	writeln(w, "")
	writeln(w, "ties %.3f  margin %+.1f ± %.1f", s.TieRate, s.Margin.Mean, s.Margin.StdDev())
	if s.InvariantFailures > 0 {
		writeln(w, "invariant failures %d (matches %v)", s.InvariantFailures, s.FailedIndices)
	}
}

// histWidth is the bar length of the fullest bucket.
const histWidth = 40

func printHistogram(w io.Writer, a team.Alliance, buckets []montecarlo.Bucket) {
	writeln(w, "%s score histogram", a)
	peak := 0
	for _, b := range buckets {
		peak = max(peak, b.Count)
	}
	if peak == 0 {
		writeln(w, "  (no matches)")
		return
	}
	for _, b := range buckets {
		n := b.Count * histWidth / peak
		if b.Count > 0 && n == 0 {
			n = 1
		}
		writeln(w, "  %4d-%-4d %s %d", b.Lo, b.Lo+montecarlo.BucketWidth-1, strings.Repeat("#", n), b.Count)
	}
}
