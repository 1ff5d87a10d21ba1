package cli

import (
	"github.com/spf13/cobra"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/strategy"
)

type catalogEntry struct {
	catalogs.Archetype
	Potential float64       `json:"scoring_potential"`
	Tier      strategy.Tier `json:"tier"`
}

type catalogReport struct {
	Digest     string         `json:"digest"`
	Archetypes []catalogEntry `json:"archetypes"`
}

func newCatalogCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the robot archetypes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd, g)
		},
	}
}

func runCatalog(cmd *cobra.Command, g *globals) error {
	env, err := g.env()
	if err != nil {
		return err
	}
	rep := catalogReport{Digest: env.Catalog.Digest}
	for _, id := range env.Catalog.IDs() {
		a, _ := env.Catalog.Lookup(id)
		rep.Archetypes = append(rep.Archetypes, catalogEntry{Archetype: a, Potential: a.ScoringPotential(), Tier: strategy.TierOf(a)})
	}
	out := cmd.OutOrStdout()
	if g.jsonOut {
		return encodeJSON(out, rep)
	}
	writeln(out, "%-18s %4s %6s %5s %-10s %-11s %6s %-6s %s",
		"archetype", "cap", "cycle", "acc", "shooter", "drivetrain", "pot", "tier", "climb")
	for _, e := range rep.Archetypes {
		writeln(out, "%-18s %4d %6.1f %5.2f %-10s %-11s %6.2f %-6s L%d (%.2f/%.2f/%.2f)",
			e.ID, e.Capacity, e.CycleMean, e.Accuracy, e.Shooter, e.Drivetrain, e.Potential, e.Tier,
			e.ClimbLevel, e.ClimbL1, e.ClimbL2, e.ClimbL3)
	}
	writeln(out, "digest %s", rep.Digest)
	return nil
}
