package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/strategy"
)

func newCounterCmd(g *globals) *cobra.Command {
	var opponent string
	cmd := &cobra.Command{
		Use:     "counter",
		Short:   "Recommend a strategy preset against an opposing alliance",
		Example: `  frcsim counter --opponent elite_turret,strong_scorer,everybot`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCounter(cmd, g, alliance.ParseLabels(opponent))
		},
	}
	cmd.Flags().StringVar(&opponent, "opponent", "", "comma-separated opposing archetypes")
	_ = cmd.MarkFlagRequired("opponent")
	return cmd
}

func runCounter(cmd *cobra.Command, g *globals, opponents []string) error {
	if len(opponents) == 0 {
		return fmt.Errorf("--opponent needs at least one archetype")
	}
	env, err := g.env()
	if err != nil {
		return err
	}
	rec, err := strategy.CounterStrategy(opponents, env.Catalog, env.Tuning)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if g.jsonOut {
		return encodeJSON(out, rec)
	}
	writeln(out, "preset  %s", rec.Preset)
	writeln(out, "reason  %s", rec.Reason)
	writeln(out, "strong or better %d, elite turrets %d", rec.StrongOrBetter, rec.EliteTurrets)
	return nil
}
