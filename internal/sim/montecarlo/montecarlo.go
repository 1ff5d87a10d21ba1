// Package montecarlo replays one matchup many times in parallel and reduces
// the results into aggregate statistics. Each match derives its seed from the
// run seed and its index, so a run is reproducible for any worker count.
package montecarlo

import (
	"context"
	"log"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
)

type options struct {
	workers  int
	logger   *log.Logger
	progress int
	match    []match.Option
}

type Option func(*options)

// WithWorkers bounds the matches in flight; n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithLogger reports progress every tenth of the run (or every n matches
// with WithProgress).
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

func WithProgress(every int) Option { return func(o *options) { o.progress = every } }

// WithMatchOptions passes options to every match. Observers are shared by
// all workers and must be safe for concurrent use.
func WithMatchOptions(opts ...match.Option) Option {
	return func(o *options) { o.match = append(o.match, opts...) }
}

// MatchSeed is the seed of match i in a run seeded with seed.
func MatchSeed(seed int64, i int) int64 { return rng.DeriveSeed(seed, i) }

type outcome struct {
	res  match.Result
	err  error
	done bool
}

// Run plays n matches of red against blue. n <= 0 and invalid alliances are
// configuration errors returned before any match starts. Cancelling ctx
// stops new matches from starting; matches already running finish, and the
// partial Stats are returned with ctx.Err().
func Run(ctx context.Context, red, blue alliance.Config, n int, seed int64, opts ...Option) (Stats, error) {
	o := options{}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	stats := Stats{Seed: seed, Requested: n, Workers: o.workers}
	if n <= 0 {
		return stats, simerr.Config(protocol.ErrConfigMatchCount, "match_count", "must be > 0, got %d", n)
	}
	if _, _, err := match.Prepare(red, blue, o.match...); err != nil {
		return stats, err
	}
	every := o.progress
	if every <= 0 {
		every = max(1, n/10)
	}

	results := make([]outcome, n)
	var finished atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := match.RunSingleMatch(red, blue, MatchSeed(seed, i), o.match...)
			if err != nil && !simerr.IsInvariant(err) {
				return err
			}
			results[i] = outcome{res: res, err: err, done: true}
			if k := finished.Add(1); o.logger != nil && (k%int64(every) == 0 || k == int64(n)) {
				o.logger.Printf("montecarlo: %d/%d matches", k, n)
			}
			return nil
		})
	}
	werr := g.Wait()

	for i, r := range results {
		switch {
		case !r.done:
		case r.err != nil:
			stats.fail(i)
			if o.logger != nil {
				o.logger.Printf("montecarlo: match %d (seed %d): %v", i, MatchSeed(seed, i), r.err)
			}
		default:
			stats.add(r.res)
		}
	}
	stats.finish()

	if werr != nil {
		return stats, werr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// RunMonteCarlo is Run under the name the match tooling uses.
func RunMonteCarlo(ctx context.Context, red, blue alliance.Config, n int, seed int64, opts ...Option) (Stats, error) {
	return Run(ctx, red, blue, n, seed, opts...)
}
