// Package state holds the mutable per-node epidemic state for a single
// replicate: each node's compartment and its dwell counters. Every
// replicate owns a private Store; the shared contact graph is never
// touched. Mutating operations keep the dwell invariant — a counter is
// nonzero only while the node occupies the matching compartment — so a
// Validate failure always signals an implementation defect.
package state

import (
	"fmt"

	"github.com/nvandessel/seirnet/internal/seir"
)

// Store tracks the compartment and dwell counters of every node in one
// replicate. The zero compartment is Susceptible, so a fresh Store starts
// with the whole population susceptible.
type Store struct {
	compartments    []seir.Compartment
	exposedDwell    []int
	infectiousDwell []int
}

// NewStore creates a store for n nodes, all susceptible with zero dwell.
func NewStore(n int) *Store {
	return &Store{
		compartments:    make([]seir.Compartment, n),
		exposedDwell:    make([]int, n),
		infectiousDwell: make([]int, n),
	}
}

// Len returns the number of nodes.
func (s *Store) Len() int { return len(s.compartments) }

// Compartment returns the compartment node id currently occupies.
func (s *Store) Compartment(id int) seir.Compartment { return s.compartments[id] }

// SetCompartment moves node id into compartment c and zeroes both dwell
// counters, so the node never carries a counter for a compartment it has
// left.
func (s *Store) SetCompartment(id int, c seir.Compartment) {
	s.compartments[id] = c
	s.exposedDwell[id] = 0
	s.infectiousDwell[id] = 0
}

// Expose seeds node id into the exposed compartment with zero dwell.
func (s *Store) Expose(id int) {
	s.SetCompartment(id, seir.Exposed)
}

// ExposedDwell returns the number of days node id has spent exposed.
func (s *Store) ExposedDwell(id int) int { return s.exposedDwell[id] }

// InfectiousDwell returns the number of days node id has spent infectious.
func (s *Store) InfectiousDwell(id int) int { return s.infectiousDwell[id] }

// IncExposedDwell advances the exposed dwell counter of node id by one
// day. The node must currently be exposed.
func (s *Store) IncExposedDwell(id int) error {
	if s.compartments[id] != seir.Exposed {
		return fmt.Errorf("%w: exposed dwell increment on node %d in compartment %s",
			seir.ErrState, id, s.compartments[id])
	}
	s.exposedDwell[id]++
	return nil
}

// IncInfectiousDwell advances the infectious dwell counter of node id by
// one day. The node must currently be infectious.
func (s *Store) IncInfectiousDwell(id int) error {
	if s.compartments[id] != seir.Infectious {
		return fmt.Errorf("%w: infectious dwell increment on node %d in compartment %s",
			seir.ErrState, id, s.compartments[id])
	}
	s.infectiousDwell[id]++
	return nil
}

// Counts tallies the current compartment occupancy.
func (s *Store) Counts() seir.Counts {
	var counts seir.Counts
	for _, c := range s.compartments {
		counts[c]++
	}
	return counts
}

// Snapshot returns a read-only copy of every node's compartment. Later
// mutations of the store do not affect the snapshot.
func (s *Store) Snapshot() seir.Snapshot {
	return seir.Snapshot(s.compartments).Clone()
}

// Validate scans for dwell counters held outside their owning
// compartment. A non-nil result wraps seir.ErrState and signals a bug in
// the engine, not a runtime condition.
func (s *Store) Validate() error {
	for id, c := range s.compartments {
		if s.exposedDwell[id] != 0 && c != seir.Exposed {
			return fmt.Errorf("%w: node %d in %s carries exposed dwell %d",
				seir.ErrState, id, c, s.exposedDwell[id])
		}
		if s.infectiousDwell[id] != 0 && c != seir.Infectious {
			return fmt.Errorf("%w: node %d in %s carries infectious dwell %d",
				seir.ErrState, id, c, s.infectiousDwell[id])
		}
	}
	return nil
}
