// Package seir defines the shared model types for the epidemic engine:
// the compartment enum, population count vectors, trajectories, and
// per-day snapshots exchanged between the graph builder, the transition
// engine, and the ensemble orchestrator.
package seir

import "fmt"

// Compartment is the infection state a node occupies. The ordinal values
// are load-bearing: count vectors and output tuples are indexed by them,
// so the S=0, I=1, E=2, R=3 ordering must never change.
type Compartment uint8

const (
	Susceptible Compartment = iota // S
	Infectious                     // I
	Exposed                        // E
	Recovered                      // R
)

// NumCompartments is the number of SEIR compartments.
const NumCompartments = 4

// compartmentLabels is indexed by Compartment ordinal.
var compartmentLabels = [NumCompartments]string{"S", "I", "E", "R"}

// String returns the single-letter compartment label.
func (c Compartment) String() string {
	if int(c) >= NumCompartments {
		return fmt.Sprintf("Compartment(%d)", uint8(c))
	}
	return compartmentLabels[c]
}

// Valid reports whether c is one of the four SEIR compartments.
func (c Compartment) Valid() bool {
	return int(c) < NumCompartments
}

// ParseCompartment maps a single-letter label to its Compartment.
func ParseCompartment(s string) (Compartment, error) {
	for i, label := range compartmentLabels {
		if s == label {
			return Compartment(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown compartment label %q", ErrConfiguration, s)
}

// Counts is a population count vector indexed by Compartment ordinal,
// so the canonical output order is [S, I, E, R]. The entries of a valid
// Counts always sum to the population size.
type Counts [NumCompartments]int

// Total returns the sum of all compartment counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Apply records a single node's transition as a signed unit delta:
// -1 on the compartment left, +1 on the compartment entered.
func (c *Counts) Apply(from, to Compartment) {
	c[from]--
	c[to]++
}

// Trajectory is the day-indexed sequence of compartment counts for one
// replicate. A run over d days produces d+1 entries; entry 0 is the
// initial state.
type Trajectory []Counts

// Snapshot maps node id (the index) to the compartment the node occupied
// at a given day. Snapshots are read-only copies; mutating one never
// affects the state store it was taken from.
type Snapshot []Compartment

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// ReplicateResult is the output of one stochastic replicate: its
// trajectory and, when snapshot capture was requested for it, one
// snapshot per day (same length as the trajectory).
type ReplicateResult struct {
	Trajectory Trajectory
	Snapshots  []Snapshot
}
