// Package contactgraph builds the fixed population contact network the
// epidemic engine runs on. The builder grows a preferential-attachment
// graph with probabilistic triangle closing, producing the heavy-tailed
// degree distribution and local clustering typical of contact networks.
// A built graph is immutable and safe to share read-only across
// concurrent replicates.
package contactgraph

import (
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/seirnet/internal/seir"
)

// Graph is an undirected simple graph over nodes 0..N-1. Adjacency never
// mutates after construction.
type Graph struct {
	adj   [][]int
	edges int
}

// Build grows a graph over n nodes. Each new node attaches to k existing
// nodes; after every preferential attachment, the next edge closes a
// triangle with probability p (an edge to a random neighbor of the
// previous target). Targets are drawn proportionally to degree, which
// yields a power-law degree tail.
//
// Build fails with seir.ErrConstruction when n, k, or p is outside its
// domain; in particular the attachment width k must be smaller than n.
// The caller supplies the random source so construction is reproducible;
// a nil rng falls back to a globally seeded one.
func Build(n, k int, p float64, rng *rand.Rand) (*Graph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: population size %d must be positive", seir.ErrConstruction, n)
	}
	if k < 1 || k >= n {
		return nil, fmt.Errorf("%w: attachment width %d must satisfy 1 <= k < n (n=%d)", seir.ErrConstruction, k, n)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: clustering probability %g must be in [0,1]", seir.ErrConstruction, p)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Graph{adj: make([][]int, n)}

	// repeated holds one entry per edge endpoint, so uniform draws from it
	// are proportional to degree. The first k nodes are seeded once each
	// so the first source can reach them before they have any edges.
	repeated := make([]int, 0, 2*k*(n-k)+k)
	for v := 0; v < k; v++ {
		repeated = append(repeated, v)
	}

	for source := k; source < n; source++ {
		target := preferentialTarget(g, source, repeated, rng)
		g.addEdge(source, target)
		repeated = append(repeated, target)

		for added := 1; added < k; added++ {
			if rng.Float64() < p {
				if nbr, ok := closingCandidate(g, source, target, rng); ok {
					g.addEdge(source, nbr)
					repeated = append(repeated, nbr)
					continue
				}
			}
			target = preferentialTarget(g, source, repeated, rng)
			g.addEdge(source, target)
			repeated = append(repeated, target)
		}

		for i := 0; i < k; i++ {
			repeated = append(repeated, source)
		}
	}

	return g, nil
}

// Complete returns the fully connected graph over n nodes. Used for
// small dense demo and test topologies.
func Complete(n int) *Graph {
	g := &Graph{adj: make([][]int, n)}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.addEdge(u, v)
		}
	}
	return g
}

// N returns the number of nodes.
func (g *Graph) N() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Degree returns the number of neighbors of node id.
func (g *Graph) Degree(id int) int { return len(g.adj[id]) }

// Neighbors returns the neighbor list of node id. The returned slice is
// owned by the graph and must not be modified.
func (g *Graph) Neighbors(id int) []int { return g.adj[id] }

// HasEdge reports whether nodes u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	// Scan the smaller list; degrees are bounded by the attachment width
	// for most nodes.
	if len(g.adj[u]) > len(g.adj[v]) {
		u, v = v, u
	}
	for _, nbr := range g.adj[u] {
		if nbr == v {
			return true
		}
	}
	return false
}

func (g *Graph) addEdge(u, v int) {
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	g.edges++
}

// preferentialTarget draws degree-proportional candidates until one is
// neither the source nor already adjacent to it. Terminates because every
// existing node appears in repeated and the source has fewer than k
// neighbors while attachment is still in progress.
func preferentialTarget(g *Graph, source int, repeated []int, rng *rand.Rand) int {
	for {
		candidate := repeated[rng.IntN(len(repeated))]
		if candidate != source && !g.HasEdge(source, candidate) {
			return candidate
		}
	}
}

// closingCandidate picks a random neighbor of target that would close a
// triangle with source. Returns false when every neighbor of target is
// the source itself or already adjacent to it.
func closingCandidate(g *Graph, source, target int, rng *rand.Rand) (int, bool) {
	candidates := make([]int, 0, len(g.adj[target]))
	for _, nbr := range g.adj[target] {
		if nbr != source && !g.HasEdge(source, nbr) {
			candidates = append(candidates, nbr)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.IntN(len(candidates))], true
}
