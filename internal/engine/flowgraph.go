package engine

import "github.com/agrodata-labs/sicorboard/internal/dataset"

// PruneFlow filters the program → purpose → product flow graph consistently
// with the active categorical filters.
//
// Rules, each applied independently to the positive-value edge set:
//   - program filter: a program→purpose edge survives only when its source
//     label matches; a purpose→product edge survives only when its source
//     purpose is directly reachable from the selected program (two-hop
//     consistency, not label matching).
//   - purpose filter: any edge touching the purpose layer survives only when
//     that endpoint's label matches.
//   - product filter: a purpose→product edge survives only when its target
//     label matches; program→purpose edges are unaffected.
//
// The returned node set is exactly the nodes touched by surviving edges. If
// an active filter combination leaves no edge, the unfiltered graph is
// returned with Fallback set, a documented degenerate-case choice so the
// diagram never renders empty.
func PruneFlow(g dataset.FlowGraph, f FilterState) dataset.FlowGraph {
	layers := make(map[string]dataset.Layer, len(g.Nodes))
	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		layer := n.Layer
		if layer == dataset.LayerUnknown {
			layer = dataset.LayerForID(n.ID)
		}
		layers[n.ID] = layer
		labels[n.ID] = n.Label
	}

	// Zero and negative flows carry no information and are always removed;
	// so are edges that do not connect adjacent layers.
	base := make([]dataset.FlowEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Value <= 0 {
			continue
		}
		src, dst := layers[e.Source], layers[e.Target]
		if (src == dataset.LayerProgram && dst == dataset.LayerPurpose) ||
			(src == dataset.LayerPurpose && dst == dataset.LayerProduct) {
			base = append(base, e)
		}
	}

	// Purposes directly reachable from the selected program. Computed over
	// the positive edge set before any other filter is applied.
	var allowedPurposes map[string]bool
	if f.Program != "" {
		allowedPurposes = make(map[string]bool)
		for _, e := range base {
			if layers[e.Source] == dataset.LayerProgram && labels[e.Source] == f.Program {
				allowedPurposes[e.Target] = true
			}
		}
	}

	kept := make([]dataset.FlowEdge, 0, len(base))
	for _, e := range base {
		fromProgram := layers[e.Source] == dataset.LayerProgram

		if f.Program != "" {
			if fromProgram {
				if labels[e.Source] != f.Program {
					continue
				}
			} else if !allowedPurposes[e.Source] {
				continue
			}
		}

		if f.Purpose != "" {
			if fromProgram {
				if labels[e.Target] != f.Purpose {
					continue
				}
			} else if labels[e.Source] != f.Purpose {
				continue
			}
		}

		if f.Product != "" && !fromProgram && labels[e.Target] != f.Product {
			continue
		}

		kept = append(kept, e)
	}

	if len(kept) == 0 && f.HasCategorical() {
		out := g
		out.Fallback = true
		return out
	}

	touched := make(map[string]bool, len(kept)*2)
	for _, e := range kept {
		touched[e.Source] = true
		touched[e.Target] = true
	}

	nodes := make([]dataset.FlowNode, 0, len(touched))
	for _, n := range g.Nodes {
		if touched[n.ID] {
			if n.Layer == dataset.LayerUnknown {
				n.Layer = dataset.LayerForID(n.ID)
			}
			nodes = append(nodes, n)
		}
	}

	return dataset.FlowGraph{Nodes: nodes, Edges: kept}
}
