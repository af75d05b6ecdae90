package ensemble

import (
	"fmt"

	"github.com/nvandessel/seirnet/internal/seir"
)

// MeanTrajectory is the per-day arithmetic mean of compartment counts
// across replicates, indexed like seir.Counts ([S, I, E, R]).
type MeanTrajectory [][seir.NumCompartments]float64

// Mean reduces an ensemble of replicate results to the mean trajectory.
// All trajectories must have the same length; the orchestrator
// guarantees this by running every replicate for the same number of
// days, so a mismatch here wraps seir.ErrShape and indicates a defect
// upstream.
func Mean(results []seir.ReplicateResult) (MeanTrajectory, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: empty ensemble", seir.ErrShape)
	}

	days := len(results[0].Trajectory)
	for i, r := range results {
		if len(r.Trajectory) != days {
			return nil, fmt.Errorf("%w: replicate %d has %d entries, replicate 0 has %d",
				seir.ErrShape, i, len(r.Trajectory), days)
		}
	}

	mean := make(MeanTrajectory, days)
	for _, r := range results {
		for day, counts := range r.Trajectory {
			for c := 0; c < seir.NumCompartments; c++ {
				mean[day][c] += float64(counts[c])
			}
		}
	}
	scale := 1.0 / float64(len(results))
	for day := range mean {
		for c := 0; c < seir.NumCompartments; c++ {
			mean[day][c] *= scale
		}
	}

	return mean, nil
}
