// Package ensemble runs many independent stochastic replicates of the
// transition engine over one shared contact graph and reduces their
// trajectories to ensemble statistics. Replicates are embarrassingly
// parallel: the graph is read-only, every replicate owns its state store
// and its own seeded random source, so the only synchronization is the
// final collection barrier.
package ensemble

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/nvandessel/seirnet/internal/contactgraph"
	"github.com/nvandessel/seirnet/internal/logging"
	"github.com/nvandessel/seirnet/internal/seir"
	"github.com/nvandessel/seirnet/internal/state"
	"github.com/nvandessel/seirnet/internal/transition"
)

// SeedPolicy selects how initially exposed node ids are drawn.
type SeedPolicy string

const (
	// SeedWithoutReplacement draws distinct node ids, so exactly the
	// requested number of nodes start exposed.
	SeedWithoutReplacement SeedPolicy = "without-replacement"

	// SeedWithReplacement draws each slot independently; duplicate draws
	// collapse, so fewer distinct nodes may start exposed.
	SeedWithReplacement SeedPolicy = "with-replacement"
)

// Valid reports whether p is a known policy.
func (p SeedPolicy) Valid() bool {
	return p == SeedWithoutReplacement || p == SeedWithReplacement
}

// Options configures an ensemble run.
type Options struct {
	// SeedNodes is the number of initially exposed seed draws per
	// replicate. Must be between 0 and the population size.
	SeedNodes int

	// Days is the number of simulated days per replicate.
	Days int

	// Replicates is the number of independent stochastic runs.
	Replicates int

	// BaseSeed feeds each replicate's private generator together with
	// the replicate index, so runs are reproducible and replicates never
	// share a random stream.
	BaseSeed uint64

	// Policy selects seed-node sampling; empty defaults to
	// SeedWithoutReplacement.
	Policy SeedPolicy

	// Workers bounds the number of replicates running concurrently.
	// Zero or negative means GOMAXPROCS.
	Workers int

	// SnapshotReplicate is the index of the single replicate whose
	// per-day compartment snapshots are captured for visualization.
	// Negative disables capture.
	SnapshotReplicate int
}

// Orchestrator fans replicates out over a bounded worker pool and
// collects their results in replicate order.
type Orchestrator struct {
	graph  *contactgraph.Graph
	engine *transition.Engine
	opts   Options
	log    *slog.Logger
}

// New validates the options against the graph and builds an orchestrator.
// A nil logger discards all output.
func New(g *contactgraph.Graph, params transition.Params, opts Options, logger *slog.Logger) (*Orchestrator, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil contact graph", seir.ErrConfiguration)
	}
	if opts.SeedNodes < 0 || opts.SeedNodes > g.N() {
		return nil, fmt.Errorf("%w: seed count %d must be between 0 and population %d",
			seir.ErrConfiguration, opts.SeedNodes, g.N())
	}
	if opts.Replicates <= 0 {
		return nil, fmt.Errorf("%w: replicate count %d must be positive",
			seir.ErrConfiguration, opts.Replicates)
	}
	if opts.Days < 0 {
		return nil, fmt.Errorf("%w: day count %d must be non-negative",
			seir.ErrConfiguration, opts.Days)
	}
	if opts.Policy == "" {
		opts.Policy = SeedWithoutReplacement
	}
	if !opts.Policy.Valid() {
		return nil, fmt.Errorf("%w: unknown seed policy %q", seir.ErrConfiguration, opts.Policy)
	}

	engine, err := transition.NewEngine(g, params)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Orchestrator{graph: g, engine: engine, opts: opts, log: logger}, nil
}

// Run executes every replicate and returns their results indexed by
// replicate, regardless of completion order. The first replicate error
// aborts the run; context cancellation stops feeding new replicates.
func (o *Orchestrator) Run(ctx context.Context) ([]seir.ReplicateResult, error) {
	workers := o.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > o.opts.Replicates {
		workers = o.opts.Replicates
	}

	o.log.Debug("ensemble run starting",
		"replicates", o.opts.Replicates,
		"days", o.opts.Days,
		"workers", workers,
		"policy", string(o.opts.Policy))

	results := make([]seir.ReplicateResult, o.opts.Replicates)
	jobs := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := o.runReplicate(ctx, idx)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("replicate %d: %w", idx, err)
					}
					mu.Unlock()
					continue
				}
				results[idx] = res
			}
		}()
	}

	// Cancellation is honored while feeding; replicates that already
	// completed by the time the context is cancelled are kept.
	var cancelled bool
feed:
	for idx := 0; idx < o.opts.Replicates; idx++ {
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		default:
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled {
		return nil, fmt.Errorf("ensemble run cancelled: %w", ctx.Err())
	}
	if firstErr != nil {
		return nil, firstErr
	}

	o.log.Debug("ensemble run complete", "replicates", o.opts.Replicates)
	return results, nil
}

// runReplicate executes one independent replicate with a private state
// store and a private generator derived from the base seed and the
// replicate index.
func (o *Orchestrator) runReplicate(ctx context.Context, idx int) (seir.ReplicateResult, error) {
	rng := rand.New(rand.NewPCG(o.opts.BaseSeed, uint64(idx)))

	st := state.NewStore(o.graph.N())
	o.seedExposed(st, rng)

	capture := idx == o.opts.SnapshotReplicate
	result, err := o.engine.Run(st, o.opts.Days, rng, capture)
	if err != nil {
		return seir.ReplicateResult{}, err
	}

	if o.log.Enabled(ctx, logging.LevelTrace) {
		for day, c := range result.Trajectory {
			o.log.Log(ctx, logging.LevelTrace, "replicate day counts",
				"replicate", idx,
				"day", day,
				"s", c[seir.Susceptible],
				"i", c[seir.Infectious],
				"e", c[seir.Exposed],
				"r", c[seir.Recovered])
		}
	}

	final := result.Trajectory[len(result.Trajectory)-1]
	o.log.Debug("replicate complete",
		"replicate", idx,
		"final_s", final[seir.Susceptible],
		"final_i", final[seir.Infectious],
		"final_e", final[seir.Exposed],
		"final_r", final[seir.Recovered])

	return result, nil
}

// seedExposed marks the initially exposed nodes according to the
// configured sampling policy.
func (o *Orchestrator) seedExposed(st *state.Store, rng *rand.Rand) {
	n := st.Len()
	switch o.opts.Policy {
	case SeedWithReplacement:
		for i := 0; i < o.opts.SeedNodes; i++ {
			st.Expose(rng.IntN(n))
		}
	default:
		for _, id := range rng.Perm(n)[:o.opts.SeedNodes] {
			st.Expose(id)
		}
	}
}
