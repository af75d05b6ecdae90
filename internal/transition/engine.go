// Package transition implements the per-day stochastic SEIR state
// machine. Each day every node is evaluated exactly once against a
// frozen snapshot of the prior day's compartments: no node observes
// another node's same-day update, so results are independent of
// iteration order and reproducible from a seed.
package transition

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/nvandessel/seirnet/internal/contactgraph"
	"github.com/nvandessel/seirnet/internal/seir"
	"github.com/nvandessel/seirnet/internal/state"
)

// Params holds the disease parameters of the transition rule.
type Params struct {
	// TransmissionProbability is the pairwise per-day transmission
	// probability beta. A susceptible node with m infectious neighbors
	// becomes exposed with probability 1-exp(-beta*m).
	TransmissionProbability float64

	// LatentPeriod is the number of days a node remains exposed before
	// turning infectious.
	LatentPeriod int

	// InfectiousPeriod is the threshold in days on the infectious dwell
	// counter; once reached the node is removed to the recovered
	// compartment.
	InfectiousPeriod int
}

// Validate checks every parameter against its documented domain.
func (p Params) Validate() error {
	if p.TransmissionProbability < 0 || p.TransmissionProbability > 1 {
		return fmt.Errorf("%w: transmission probability %g must be in [0,1]",
			seir.ErrConfiguration, p.TransmissionProbability)
	}
	if p.LatentPeriod < 0 {
		return fmt.Errorf("%w: latent period %d must be non-negative",
			seir.ErrConfiguration, p.LatentPeriod)
	}
	if p.InfectiousPeriod < 0 {
		return fmt.Errorf("%w: infectious period %d must be non-negative",
			seir.ErrConfiguration, p.InfectiousPeriod)
	}
	return nil
}

// Engine advances node state day by day over an immutable contact graph.
// The engine itself holds no mutable state; all of it lives in the
// per-replicate store passed to Run.
type Engine struct {
	graph  *contactgraph.Graph
	params Params
}

// NewEngine creates an engine for the given graph and parameters.
func NewEngine(g *contactgraph.Graph, params Params) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil contact graph", seir.ErrConfiguration)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{graph: g, params: params}, nil
}

// Run advances the store day by day for the given number of days and
// returns the trajectory (days+1 entries, entry 0 is the initial state).
// When capture is true the result also carries one compartment snapshot
// per day. The caller owns the random source; a nil rng falls back to a
// globally seeded one.
func (e *Engine) Run(st *state.Store, days int, rng *rand.Rand, capture bool) (seir.ReplicateResult, error) {
	if days < 0 {
		return seir.ReplicateResult{}, fmt.Errorf("%w: day count %d must be non-negative",
			seir.ErrConfiguration, days)
	}
	if st.Len() != e.graph.N() {
		return seir.ReplicateResult{}, fmt.Errorf("%w: state store holds %d nodes, graph has %d",
			seir.ErrConfiguration, st.Len(), e.graph.N())
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	counts := st.Counts()
	trajectory := make(seir.Trajectory, 0, days+1)
	trajectory = append(trajectory, counts)

	var snapshots []seir.Snapshot
	if capture {
		snapshots = make([]seir.Snapshot, 0, days+1)
		snapshots = append(snapshots, st.Snapshot())
	}

	for day := 1; day <= days; day++ {
		var err error
		counts, err = e.step(st, counts, rng)
		if err != nil {
			return seir.ReplicateResult{}, fmt.Errorf("day %d: %w", day, err)
		}
		if counts.Total() != st.Len() {
			return seir.ReplicateResult{}, fmt.Errorf("%w: day %d counts %v sum to %d, population is %d",
				seir.ErrState, day, counts, counts.Total(), st.Len())
		}
		trajectory = append(trajectory, counts)
		if capture {
			snapshots = append(snapshots, st.Snapshot())
		}
	}

	return seir.ReplicateResult{Trajectory: trajectory, Snapshots: snapshots}, nil
}

// step applies one day of transitions. All decisions read the frozen
// prior-day snapshot; the store and the count vector absorb the updates.
func (e *Engine) step(st *state.Store, counts seir.Counts, rng *rand.Rand) (seir.Counts, error) {
	prior := st.Snapshot()

	for id := range prior {
		switch prior[id] {
		case seir.Susceptible:
			m := 0
			for _, nbr := range e.graph.Neighbors(id) {
				if prior[nbr] == seir.Infectious {
					m++
				}
			}
			if m == 0 {
				// A trial with zero infectious neighbors cannot succeed.
				continue
			}
			if rng.Float64() < 1-math.Exp(-e.params.TransmissionProbability*float64(m)) {
				st.SetCompartment(id, seir.Exposed)
				counts.Apply(seir.Susceptible, seir.Exposed)
			}

		case seir.Exposed:
			// The latent clock advances before the threshold test: a node
			// exposed on day t with latent period L turns infectious on
			// day t+L.
			if err := st.IncExposedDwell(id); err != nil {
				return counts, err
			}
			if st.ExposedDwell(id) >= e.params.LatentPeriod {
				st.SetCompartment(id, seir.Infectious)
				counts.Apply(seir.Exposed, seir.Infectious)
			}

		case seir.Infectious:
			// The infectious clock advances after the threshold test: a
			// node stays infectious until its dwell counter reaches the
			// infectious period.
			if st.InfectiousDwell(id) >= e.params.InfectiousPeriod {
				st.SetCompartment(id, seir.Recovered)
				counts.Apply(seir.Infectious, seir.Recovered)
			} else if err := st.IncInfectiousDwell(id); err != nil {
				return counts, err
			}

		case seir.Recovered:
			// Absorbing.
		}
	}

	return counts, nil
}
