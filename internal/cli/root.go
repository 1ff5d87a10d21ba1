// Package cli implements the frcsim command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logger      *log.Logger
	tuningPath  string
	catalogPath string
	jsonOut     bool
}

// env loads the tuning and archetype catalog named on the command line, or
// the built-in defaults.
func (g *globals) env() (match.Env, error) {
	e := match.DefaultEnv()
	if g.tuningPath != "" {
		t, err := tuning.Load(g.tuningPath)
		if err != nil {
			return e, err
		}
		e.Tuning = t
	}
	if g.catalogPath != "" {
		c, err := catalogs.Load(g.catalogPath)
		if err != nil {
			return e, err
		}
		e.Catalog = c
	}
	return e, nil
}

func (g *globals) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Printf(format, args...)
	}
}

// NewRootCmd builds a fresh command tree. logger may be nil.
func NewRootCmd(logger *log.Logger) *cobra.Command {
	g := &globals{logger: logger}
	root := &cobra.Command{
		Use:   "frcsim",
		Short: "Simulate FRC 2026 matches between two alliances",
		Long: `frcsim plays stochastic, tick-driven matches between two alliances of three
robots and estimates win probability and bonus attainment over many runs.

Play one match and keep a trace:
  frcsim match --red elite_turret,strong_scorer,everybot --blue everybot,everybot,kitbot_plus --trace out.jsonl.zst

Estimate over many matches:
  frcsim montecarlo --red ... --blue ... --runs 2000`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.tuningPath, "tuning", "", "tuning YAML overlaid on the defaults")
	pf.StringVar(&g.catalogPath, "catalog", "", "archetype catalog (.yaml, .json or .toml)")
	pf.BoolVar(&g.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(newMatchCmd(g))
	root.AddCommand(newMonteCarloCmd(g))
	root.AddCommand(newCounterCmd(g))
	root.AddCommand(newPlanCmd(g))
	root.AddCommand(newCatalogCmd(g))
	return root
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute(logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(logger).ExecuteContext(ctx)
}

// allianceFlags selects one alliance either from archetype labels or from a
// file.
type allianceFlags struct {
	name   string
	labels string
	preset string
	file   string
}

func (f *allianceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.labels, f.name, "", "comma-separated archetypes for the "+f.name+" alliance")
	fs.StringVar(&f.preset, f.name+"-preset", "", "strategy preset for the "+f.name+" alliance")
	fs.StringVar(&f.file, f.name+"-file", "", "alliance file (.yaml or .toml) for the "+f.name+" alliance")
}

// config builds the alliance. A preset flag overrides the file's preset.
func (f *allianceFlags) config() (alliance.Config, error) {
	var (
		c   alliance.Config
		err error
	)
	switch {
	case f.file != "":
		if c, err = alliance.LoadFile(f.file); err != nil {
			return c, err
		}
		if f.preset != "" {
			c.Preset = alliance.Preset(f.preset)
		}
	case f.labels != "":
		c = alliance.New(alliance.Preset(f.preset), alliance.ParseLabels(f.labels)...)
	default:
		return c, fmt.Errorf("one of --%s or --%s-file is required", f.name, f.name)
	}
	if c.Name == "" {
		c.Name = f.name
	}
	c.Normalize()
	return c, nil
}

type matchupFlags struct {
	red, blue allianceFlags
	tieBreak  string
}

func newMatchupFlags(cmd *cobra.Command) *matchupFlags {
	m := &matchupFlags{
		red:  allianceFlags{name: "red"},
		blue: allianceFlags{name: "blue"},
	}
	m.red.register(cmd)
	m.blue.register(cmd)
	cmd.Flags().StringVar(&m.tieBreak, "tie-break", "red_default", "tied opening: red_default or coin_flip")
	return m
}

func (m *matchupFlags) configs() (red, blue alliance.Config, err error) {
	if red, err = m.red.config(); err != nil {
		return red, blue, err
	}
	if blue, err = m.blue.config(); err != nil {
		return red, blue, err
	}
	return red, blue, nil
}

func writeln(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
