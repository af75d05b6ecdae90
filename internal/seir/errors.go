package seir

import "errors"

// Error taxonomy for the engine. All failures wrap one of these sentinels
// so callers can classify with errors.Is. None of them is retried: a
// failed precondition is a caller bug and an invariant violation is an
// implementation defect.
var (
	// ErrConfiguration reports a parameter outside its documented domain,
	// raised before any simulation work begins.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrConstruction reports a population/degree combination the graph
	// builder cannot satisfy.
	ErrConstruction = errors.New("graph construction failed")

	// ErrState reports a violated internal invariant (count sum drift or
	// a dwell counter outside its owning compartment). Fatal, unreachable
	// through the public API.
	ErrState = errors.New("state invariant violated")

	// ErrShape reports trajectories of unequal length handed to the
	// aggregator.
	ErrShape = errors.New("trajectory shape mismatch")
)
