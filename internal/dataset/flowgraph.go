package dataset

import "strings"

// Layer identifies which of the three flow-graph layers a node belongs to.
// Node ids carry a textual tag ("prog_", "fin_", "prod_"); the loader
// resolves the tag to a Layer once so downstream code never re-parses ids.
type Layer int

const (
	LayerUnknown Layer = iota
	LayerProgram
	LayerPurpose
	LayerProduct
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerProgram:
		return "program"
	case LayerPurpose:
		return "purpose"
	case LayerProduct:
		return "product"
	default:
		return "unknown"
	}
}

// LayerForID derives the layer from a node id tag.
func LayerForID(id string) Layer {
	switch {
	case strings.HasPrefix(id, "prog_"):
		return LayerProgram
	case strings.HasPrefix(id, "fin_"):
		return LayerPurpose
	case strings.HasPrefix(id, "prod_"):
		return LayerProduct
	default:
		return LayerUnknown
	}
}

// FlowNode is a node in the program → purpose → product flow graph.
type FlowNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Layer Layer  `json:"layer"`
}

// FlowEdge is a directed, valued edge between adjacent layers.
type FlowEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// FlowGraph is the three-layer value-distribution diagram (Sankey source).
// Invariant: every edge references only ids present in Nodes.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`

	// Fallback is set by the pruner when a filter combination matched no
	// edges and the unfiltered graph was returned instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Node returns the node with the given id, if present.
func (g FlowGraph) Node(id string) (FlowNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return FlowNode{}, false
}

// HasNode reports whether a node id exists in the graph.
func (g FlowGraph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}
