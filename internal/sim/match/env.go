// Package match runs one simulated match tick by tick. A match owns its
// ledger, clock, agents and random streams; nothing is shared between
// matches, so independent matches may run on separate goroutines.
package match

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// Env is the immutable input shared by every match of a run.
type Env struct {
	Tuning  tuning.Tuning
	Catalog *catalogs.Catalog
}

func DefaultEnv() Env {
	return Env{Tuning: tuning.Defaults(), Catalog: catalogs.Default()}
}

// TickObserver receives one record per tick. Errors are ignored; an observer
// must not be able to change the outcome of a match.
type TickObserver interface {
	WriteTick(protocol.TickRecord) error
}

type options struct {
	env      Env
	observer TickObserver
	tieBreak phase.TieBreak
}

type Option func(*options)

func WithEnv(e Env) Option { return func(o *options) { o.env = e } }

func WithObserver(obs TickObserver) Option { return func(o *options) { o.observer = obs } }

// WithTieBreak selects how a tied opening fixes the shift pattern.
func WithTieBreak(tb phase.TieBreak) Option { return func(o *options) { o.tieBreak = tb } }

func buildOptions(opts []Option) options {
	o := options{env: DefaultEnv(), tieBreak: phase.TieBreakRedDefault}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.env.Catalog == nil {
		o.env.Catalog = catalogs.Default()
	}
	return o
}
