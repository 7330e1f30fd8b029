package engine

import (
	"testing"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
)

func testGraph() dataset.FlowGraph {
	return dataset.FlowGraph{
		Nodes: []dataset.FlowNode{
			{ID: "prog_A", Label: "A", Layer: dataset.LayerProgram},
			{ID: "prog_X", Label: "X", Layer: dataset.LayerProgram},
			{ID: "fin_B", Label: "B", Layer: dataset.LayerPurpose},
			{ID: "fin_Y", Label: "Y", Layer: dataset.LayerPurpose},
			{ID: "prod_C", Label: "C", Layer: dataset.LayerProduct},
			{ID: "prod_Z", Label: "Z", Layer: dataset.LayerProduct},
		},
		Edges: []dataset.FlowEdge{
			{Source: "prog_A", Target: "fin_B", Value: 10},
			{Source: "prog_X", Target: "fin_Y", Value: 20},
			{Source: "fin_B", Target: "prod_C", Value: 5},
			{Source: "fin_Y", Target: "prod_Z", Value: 8},
		},
	}
}

func assertIntegrity(t *testing.T, g dataset.FlowGraph) {
	t.Helper()
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("edge %s->%s references a node missing from the returned set", e.Source, e.Target)
		}
	}
}

func TestPruneFlow_NoFilters(t *testing.T) {
	got := PruneFlow(testGraph(), FilterState{})
	if len(got.Edges) != 4 || len(got.Nodes) != 6 {
		t.Errorf("unfiltered graph should keep all positive edges: %d edges, %d nodes", len(got.Edges), len(got.Nodes))
	}
	assertIntegrity(t, got)
}

func TestPruneFlow_DropsNonPositiveEdges(t *testing.T) {
	g := testGraph()
	g.Edges = append(g.Edges,
		dataset.FlowEdge{Source: "prog_A", Target: "fin_Y", Value: 0},
		dataset.FlowEdge{Source: "fin_Y", Target: "prod_C", Value: -3},
	)

	got := PruneFlow(g, FilterState{})
	if len(got.Edges) != 4 {
		t.Errorf("zero/negative edges must always be removed, got %d edges", len(got.Edges))
	}
	assertIntegrity(t, got)
}

func TestPruneFlow_ProductFilterOnlyConstrainsSecondHop(t *testing.T) {
	// Filtering by product C constrains purpose->product edges by target
	// label only: every program->purpose edge stays, including the X->Y hop
	// that never reaches C, while fin_Y -> prod_Z is dropped.
	got := PruneFlow(testGraph(), FilterState{Product: "C"})

	if len(got.Edges) != 3 {
		t.Fatalf("expected 3 surviving edges, got %v", got.Edges)
	}
	hasEdge := func(src, dst string) bool {
		for _, e := range got.Edges {
			if e.Source == src && e.Target == dst {
				return true
			}
		}
		return false
	}
	if !hasEdge("prog_A", "fin_B") || !hasEdge("prog_X", "fin_Y") || !hasEdge("fin_B", "prod_C") {
		t.Errorf("product filter result wrong: %v", got.Edges)
	}
	if hasEdge("fin_Y", "prod_Z") {
		t.Errorf("purpose->product edge to an unselected product survived: %v", got.Edges)
	}
	for _, n := range got.Nodes {
		if n.ID == "prod_Z" {
			t.Errorf("orphan node %s must be dropped", n.ID)
		}
	}
	assertIntegrity(t, got)
}

func TestPruneFlow_ProgramFilterTwoHopConsistency(t *testing.T) {
	// Program A reaches purpose B; fin_B -> prod_C survives because its
	// source purpose is in the allowed set, while the X/Y/Z chain is gone.
	got := PruneFlow(testGraph(), FilterState{Program: "A"})

	if len(got.Edges) != 2 {
		t.Fatalf("expected the A->B->C chain only, got %v", got.Edges)
	}
	for _, e := range got.Edges {
		if e.Source == "prog_X" || e.Target == "fin_Y" || e.Source == "fin_Y" {
			t.Errorf("edge outside the selected program's reach survived: %v", e)
		}
	}
	assertIntegrity(t, got)
}

func TestPruneFlow_PurposeFilterTouchesBothHops(t *testing.T) {
	got := PruneFlow(testGraph(), FilterState{Purpose: "B"})

	if len(got.Edges) != 2 {
		t.Fatalf("expected both edges touching purpose B, got %v", got.Edges)
	}
	for _, e := range got.Edges {
		if e.Source != "fin_B" && e.Target != "fin_B" {
			t.Errorf("edge not touching the selected purpose survived: %v", e)
		}
	}
	assertIntegrity(t, got)
}

func TestPruneFlow_DropsOrphanNodes(t *testing.T) {
	got := PruneFlow(testGraph(), FilterState{Program: "A"})
	for _, n := range got.Nodes {
		if n.ID == "prog_X" || n.ID == "fin_Y" || n.ID == "prod_Z" {
			t.Errorf("orphan node %s must be dropped", n.ID)
		}
	}
}

func TestPruneFlow_EmptyResultFallsBackToOriginal(t *testing.T) {
	got := PruneFlow(testGraph(), FilterState{Program: "NOPE"})

	if !got.Fallback {
		t.Error("fallback flag must be set when no edge survives")
	}
	if len(got.Edges) != 4 || len(got.Nodes) != 6 {
		t.Errorf("fallback must return the original graph: %d edges, %d nodes", len(got.Edges), len(got.Nodes))
	}
}

func TestPruneFlow_CombinedFilters(t *testing.T) {
	got := PruneFlow(testGraph(), FilterState{Program: "A", Purpose: "B", Product: "C"})
	if len(got.Edges) != 2 || got.Fallback {
		t.Errorf("consistent combined filters must keep the full chain: %v", got.Edges)
	}
	assertIntegrity(t, got)
}
