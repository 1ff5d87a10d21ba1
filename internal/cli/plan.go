package cli

import (
	"github.com/spf13/cobra"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/strategy"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

type planOptions struct {
	own      allianceFlags
	opponent string
}

type planReport struct {
	Labels   []string      `json:"labels"`
	Opponent []string      `json:"opponent"`
	Plan     strategy.Plan `json:"plan"`
}

func newPlanCmd(g *globals) *cobra.Command {
	o := &planOptions{own: allianceFlags{name: "alliance"}}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the roles and endgame plan a preset gives an alliance",
		Long: `plan resolves an alliance's standing orders: the role of each robot while
its hub is active and inactive, climb targets, auto actions and defense
targets. Defense targets resolve against --opponent, or against the
alliance's own mirror when it is omitted.`,
		Example: `  frcsim plan --alliance elite_turret,everybot,defense_bot --alliance-preset 2_score_1_defend --opponent strong_scorer,everybot,everybot`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, g, o)
		},
	}
	o.own.register(cmd)
	cmd.Flags().StringVar(&o.opponent, "opponent", "", "comma-separated opposing archetypes")
	return cmd
}

func runPlan(cmd *cobra.Command, g *globals, o *planOptions) error {
	env, err := g.env()
	if err != nil {
		return err
	}
	own, err := o.own.config()
	if err != nil {
		return err
	}
	opp := own
	if o.opponent != "" {
		opp = alliance.New(alliance.FullOffense, alliance.ParseLabels(o.opponent)...)
	}
	_, plans, err := match.Prepare(own, opp, match.WithEnv(env))
	if err != nil {
		return err
	}
	rep := planReport{Labels: own.Labels(), Opponent: opp.Labels(), Plan: plans[team.Red]}

	out := cmd.OutOrStdout()
	if g.jsonOut {
		return encodeJSON(out, rep)
	}
	p := rep.Plan
	writeln(out, "preset %s  human player %s", p.Preset, p.HumanPlayer)
	writeln(out, "%-4s %-16s %-16s %-16s %-7s %-6s %-7s %s",
		"slot", "robot", "active", "inactive", "prepos", "climb", "auto", "defends")
	for i, s := range p.Slots {
		target := "-"
		if s.Active == alliance.RoleDefend || s.Inactive == alliance.RoleDefend {
			target = "opp " + rep.Opponent[s.DefenseTarget]
		}
		prepos := "no"
		if s.Preposition {
			prepos = "yes"
		}
		writeln(out, "%-4d %-16s %-16s %-16s %-7s L%-5d %-7s %s",
			i+1, rep.Labels[i], s.Active, s.Inactive, prepos, s.ClimbTarget, s.Auto, target)
	}
	writeln(out, "scorer rank %v  expected tower points %.1f", p.Rank, p.ExpectedTowerPoints)
	return nil
}
