package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	persistlog "github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/persistence/log"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

type matchOptions struct {
	matchup   *matchupFlags
	seed      int64
	tracePath string
}

func newMatchCmd(g *globals) *cobra.Command {
	o := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Play one match and print the scoresheet",
		Example: `  frcsim match --red elite_turret,strong_scorer,everybot --blue everybot,everybot,everybot --seed 7
  frcsim match --red-file red.yaml --blue kitbot_plus,kitbot_plus,defense_bot --blue-preset 2_score_1_defend --trace m7.jsonl.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, g, o)
		},
	}
	o.matchup = newMatchupFlags(cmd)
	cmd.Flags().Int64Var(&o.seed, "seed", 1, "match seed")
	cmd.Flags().StringVar(&o.tracePath, "trace", "", "write a .jsonl.zst trace of every tick")
	return cmd
}

func runMatch(cmd *cobra.Command, g *globals, o *matchOptions) error {
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
	opts := []match.Option{match.WithEnv(env), match.WithTieBreak(tb)}

	var tw *persistlog.TraceWriter
	if o.tracePath != "" {
		// Validate before creating the file so a bad config leaves no trace.
		if _, _, err := match.Prepare(red, blue, opts...); err != nil {
			return err
		}
		h, err := persistlog.NewHeader(o.seed, red, blue, env)
		if err != nil {
			return err
		}
		h.TieBreak = tb.String()
		if tw, err = persistlog.CreateTrace(o.tracePath, h); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
		opts = append(opts, match.WithObserver(tw))
	}

	res, runErr := match.RunSingleMatch(red, blue, o.seed, opts...)
	if tw != nil {
		if err := tw.WriteResult(persistlog.NewResult(res, runErr)); err != nil {
			_ = tw.Close()
			return fmt.Errorf("trace: %w", err)
		}
		if err := tw.Close(); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
		g.logf("trace: wrote %d ticks to %s", tw.Ticks(), o.tracePath)
	}
	if runErr != nil && !simerr.IsInvariant(runErr) {
		return runErr
	}

	out := cmd.OutOrStdout()
	if g.jsonOut {
		if err := encodeJSON(out, res); err != nil {
			return err
		}
	} else {
		printResult(out, res, [2]alliance.Config{red, blue})
	}
	if runErr != nil {
		return fmt.Errorf("match aborted at tick %d: %w", res.Ticks, runErr)
	}
	return nil
}

func printResult(w io.Writer, res match.Result, cfg [2]alliance.Config) {
	writeln(w, "seed %d  winner %s  margin %+d", res.Seed, res.Winner, res.Margin())
	auto := res.AutoWinner
	if res.TieBreakDrawn {
		auto += " (coin flip)"
	}
	writeln(w, "opening won by %s", auto)
	writeln(w, "")
	for _, a := range team.Both {
		r := res.Alliances[a]
		writeln(w, "%-4s %-18s %s", a, r.Preset, strings.Join(cfg[a].Labels(), ","))
		writeln(w, "     score %d  fuel %d (auto %d, points %d)  tower %d  penalties +%d/-%d",
			r.Score, r.FuelScored, r.AutoFuel, r.FuelPoints, r.TowerPoints, r.PenaltiesReceived, r.PenaltiesCommitted)
		writeln(w, "     human %s: %d/%d thrown, %d fed  RP %d%s",
			r.HumanPlayer, r.HumanMade, r.HumanThrows, r.HumanFeeds, r.RP, bonusList(r))
	}
	writeln(w, "")
	writeln(w, "%-12s %5s %5s", "phase", "red", "blue")
	for _, p := range res.Phases {
		writeln(w, "%-12s %5d %5d", p.Phase, p.Red, p.Blue)
	}
	writeln(w, "")
	writeln(w, "%-5s %-16s %5s %6s %5s %5s %6s", "slot", "robot", "made", "missed", "jams", "fouls", "climb")
	for _, ag := range res.Agents {
		climb := "-"
		if ag.ClimbLevel > 0 {
			climb = fmt.Sprintf("L%d", ag.ClimbLevel)
		} else if ag.ClimbTarget > 0 {
			climb = fmt.Sprintf("L%d x", ag.ClimbTarget)
		}
		writeln(w, "%-5s %-16s %5d %6d %5d %5d %6s",
			fmt.Sprintf("%s%d", ag.Alliance.String()[:1], ag.Index+1), ag.Label,
			ag.Made, ag.Missed, ag.Jams, ag.Fouls+ag.TechFouls, climb)
	}
}

func bonusList(r match.AllianceResult) string {
	var b []string
	if r.Energized {
		b = append(b, "energized")
	}
	if r.Supercharged {
		b = append(b, "supercharged")
	}
	if r.Traversal {
		b = append(b, "traversal")
	}
	if len(b) == 0 {
		return ""
	}
	return " [" + strings.Join(b, " ") + "]"
}
