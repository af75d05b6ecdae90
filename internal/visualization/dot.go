// Package visualization renders contact networks and compartment
// snapshots in DOT and JSON formats for external tooling.
package visualization

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nvandessel/seirnet/internal/contactgraph"
	"github.com/nvandessel/seirnet/internal/seir"
)

// Format identifies a rendering output format.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// compartmentColors maps compartments to Graphviz fill colors.
var compartmentColors = map[seir.Compartment]string{
	seir.Susceptible: "steelblue",
	seir.Exposed:     "goldenrod",
	seir.Infectious:  "tomato",
	seir.Recovered:   "mediumseagreen",
}

// RenderDOT renders the graph in Graphviz DOT format. When snap is
// non-nil each node is filled with its compartment's color; a nil snap
// renders topology only. The snapshot must cover every node.
func RenderDOT(g *contactgraph.Graph, snap seir.Snapshot) (string, error) {
	if g == nil {
		return "", fmt.Errorf("nil graph")
	}
	if snap != nil && len(snap) != g.N() {
		return "", fmt.Errorf("snapshot covers %d nodes, graph has %d", len(snap), g.N())
	}

	var b strings.Builder
	b.WriteString("graph contacts {\n")
	b.WriteString("  node [shape=circle style=filled fontsize=10];\n")

	for id := 0; id < g.N(); id++ {
		if snap == nil {
			fmt.Fprintf(&b, "  %d;\n", id)
			continue
		}
		comp := snap[id]
		color, ok := compartmentColors[comp]
		if !ok {
			return "", fmt.Errorf("node %d holds unknown compartment %d", id, comp)
		}
		fmt.Fprintf(&b, "  %d [fillcolor=%s label=\"%d\\n%s\"];\n", id, color, id, comp)
	}

	// Emit each undirected edge once, from the lower endpoint.
	for u := 0; u < g.N(); u++ {
		for _, v := range g.Neighbors(u) {
			if u < v {
				fmt.Fprintf(&b, "  %d -- %d;\n", u, v)
			}
		}
	}

	b.WriteString("}\n")
	return b.String(), nil
}

type jsonNode struct {
	ID          int    `json:"id"`
	Compartment string `json:"compartment,omitempty"`
}

type jsonEdge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

type jsonGraph struct {
	NodeCount int        `json:"node_count"`
	EdgeCount int        `json:"edge_count"`
	Counts    *seirCount `json:"counts,omitempty"`
	Nodes     []jsonNode `json:"nodes"`
	Edges     []jsonEdge `json:"edges"`
}

type seirCount struct {
	Susceptible int `json:"susceptible"`
	Infectious  int `json:"infectious"`
	Exposed     int `json:"exposed"`
	Recovered   int `json:"recovered"`
}

// RenderJSON renders the graph, and optionally a compartment snapshot,
// as a JSON document with node, edge, and count sections.
func RenderJSON(g *contactgraph.Graph, snap seir.Snapshot) (string, error) {
	if g == nil {
		return "", fmt.Errorf("nil graph")
	}
	if snap != nil && len(snap) != g.N() {
		return "", fmt.Errorf("snapshot covers %d nodes, graph has %d", len(snap), g.N())
	}

	doc := jsonGraph{
		NodeCount: g.N(),
		EdgeCount: g.EdgeCount(),
		Nodes:     make([]jsonNode, 0, g.N()),
		Edges:     make([]jsonEdge, 0, g.EdgeCount()),
	}

	var counts seir.Counts
	for id := 0; id < g.N(); id++ {
		node := jsonNode{ID: id}
		if snap != nil {
			comp := snap[id]
			if !comp.Valid() {
				return "", fmt.Errorf("node %d holds unknown compartment %d", id, comp)
			}
			node.Compartment = comp.String()
			counts[comp]++
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	if snap != nil {
		doc.Counts = &seirCount{
			Susceptible: counts[seir.Susceptible],
			Infectious:  counts[seir.Infectious],
			Exposed:     counts[seir.Exposed],
			Recovered:   counts[seir.Recovered],
		}
	}

	for u := 0; u < g.N(); u++ {
		for _, v := range g.Neighbors(u) {
			if u < v {
				doc.Edges = append(doc.Edges, jsonEdge{Source: u, Target: v})
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding graph: %w", err)
	}
	return string(data), nil
}
