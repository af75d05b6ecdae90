package visualization

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nvandessel/seirnet/internal/contactgraph"
	"github.com/nvandessel/seirnet/internal/seir"
)

func testSnapshot(n int) seir.Snapshot {
	snap := make(seir.Snapshot, n)
	snap[0] = seir.Infectious
	snap[1] = seir.Exposed
	snap[2] = seir.Recovered
	return snap
}

func TestRenderDOT_TopologyOnly(t *testing.T) {
	g := contactgraph.Complete(4)
	out, err := RenderDOT(g, nil)
	if err != nil {
		t.Fatalf("RenderDOT: %v", err)
	}

	if !strings.HasPrefix(out, "graph contacts {") {
		t.Errorf("output does not open an undirected graph:\n%s", out)
	}
	// Complete graph on 4 nodes has 6 edges, each emitted once.
	if got := strings.Count(out, " -- "); got != 6 {
		t.Errorf("edge count %d, want 6:\n%s", got, out)
	}
	if strings.Contains(out, "fillcolor") {
		t.Errorf("topology-only render should not color nodes:\n%s", out)
	}
}

func TestRenderDOT_ColorsBySnapshot(t *testing.T) {
	g := contactgraph.Complete(5)
	out, err := RenderDOT(g, testSnapshot(5))
	if err != nil {
		t.Fatalf("RenderDOT: %v", err)
	}

	for _, want := range []string{"tomato", "goldenrod", "mediumseagreen", "steelblue"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s fill:\n%s", want, out)
		}
	}
}

func TestRenderDOT_SnapshotLengthMismatch(t *testing.T) {
	g := contactgraph.Complete(5)
	if _, err := RenderDOT(g, make(seir.Snapshot, 3)); err == nil {
		t.Error("expected error for short snapshot")
	}
}

func TestRenderJSON(t *testing.T) {
	g := contactgraph.Complete(4)
	out, err := RenderJSON(g, testSnapshot(4))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var doc struct {
		NodeCount int `json:"node_count"`
		EdgeCount int `json:"edge_count"`
		Counts    *struct {
			Susceptible int `json:"susceptible"`
			Infectious  int `json:"infectious"`
			Exposed     int `json:"exposed"`
			Recovered   int `json:"recovered"`
		} `json:"counts"`
		Nodes []struct {
			ID          int    `json:"id"`
			Compartment string `json:"compartment"`
		} `json:"nodes"`
		Edges []struct {
			Source int `json:"source"`
			Target int `json:"target"`
		} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if doc.NodeCount != 4 || len(doc.Nodes) != 4 {
		t.Errorf("node count %d / %d nodes, want 4", doc.NodeCount, len(doc.Nodes))
	}
	if doc.EdgeCount != 6 || len(doc.Edges) != 6 {
		t.Errorf("edge count %d / %d edges, want 6", doc.EdgeCount, len(doc.Edges))
	}
	if doc.Counts == nil {
		t.Fatal("counts section missing")
	}
	if doc.Counts.Susceptible != 1 || doc.Counts.Infectious != 1 ||
		doc.Counts.Exposed != 1 || doc.Counts.Recovered != 1 {
		t.Errorf("counts %+v, want one of each", *doc.Counts)
	}
	if doc.Nodes[0].Compartment != "I" {
		t.Errorf("node 0 compartment %q, want I", doc.Nodes[0].Compartment)
	}
}

func TestRenderJSON_TopologyOnlyOmitsCounts(t *testing.T) {
	g := contactgraph.Complete(3)
	out, err := RenderJSON(g, nil)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if strings.Contains(out, "\"counts\"") {
		t.Errorf("topology-only render should omit counts:\n%s", out)
	}
	if strings.Contains(out, "\"compartment\"") {
		t.Errorf("topology-only render should omit compartments:\n%s", out)
	}
}
