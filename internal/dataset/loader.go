package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

// Load reads aggregated.json (and, when present, forecasts.json) and returns
// an immutable Dataset with a fresh instance ID. A missing or unreadable
// forecasts file is not an error: forecasts are an optional slice of the
// dashboard and their absence must not block the rest of it.
func Load(aggregatedPath, forecastsPath string) (*Dataset, error) {
	data, err := os.ReadFile(aggregatedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", aggregatedPath, err)
	}

	ds.ID = uuid.NewString()
	ds.normalize()

	if forecastsPath != "" {
		if raw, err := os.ReadFile(forecastsPath); err == nil {
			forecasts, err := decodeForecasts(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse forecasts %s: %w", forecastsPath, err)
			}
			ds.Forecasts = forecasts
		}
	}

	return &ds, nil
}

// normalize enforces the flow-graph node/edge invariant and backfills year
// bounds when the ETL metadata is incomplete.
func (d *Dataset) normalize() {
	d.Flow = sanitizeFlow(d.Flow)

	if d.Metadata.YearMin == 0 || d.Metadata.YearMax == 0 {
		for _, r := range d.ByYear {
			if r.Year == 0 {
				continue
			}
			if d.Metadata.YearMin == 0 || r.Year < d.Metadata.YearMin {
				d.Metadata.YearMin = r.Year
			}
			if r.Year > d.Metadata.YearMax {
				d.Metadata.YearMax = r.Year
			}
		}
	}
}

// sanitizeFlow resolves node layers from their id tags and drops edges whose
// endpoints are not among the graph's own nodes.
func sanitizeFlow(g FlowGraph) FlowGraph {
	ids := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		g.Nodes[i].Layer = LayerForID(g.Nodes[i].ID)
		ids[g.Nodes[i].ID] = true
	}

	edges := make([]FlowEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if ids[e.Source] && ids[e.Target] {
			edges = append(edges, e)
		}
	}
	g.Edges = edges
	return g
}

// decodeForecasts converts the forecasts.json document into typed series.
// The file nests series → model → result, where result is either a
// prediction payload or an {"error": ...} marker; mapstructure handles the
// loosely typed numerics the generator emits.
func decodeForecasts(raw []byte) (map[string]map[string]Forecast, error) {
	var doc map[string]map[string]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]Forecast, len(doc))
	for series, models := range doc {
		out[series] = make(map[string]Forecast, len(models))
		for model, payload := range models {
			var f Forecast
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:           &f,
				WeaklyTypedInput: true,
			})
			if err != nil {
				return nil, err
			}
			if err := dec.Decode(payload); err != nil {
				return nil, fmt.Errorf("forecast %s/%s: %w", series, model, err)
			}
			out[series][model] = f
		}
	}
	return out, nil
}

// UnmarshalJSON accepts both gender summary shapes: the flat totals object
// the ETL emits today and the richer {byYearMonth, totals} form.
func (g *Gender) UnmarshalJSON(data []byte) error {
	var aux struct {
		ByYearMonth []Record      `json:"byYearMonth"`
		Totals      *GenderTotals `json:"totals"`
		Male        float64       `json:"masculino"`
		Female      float64       `json:"feminino"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	g.ByYearMonth = aux.ByYearMonth
	if aux.Totals != nil {
		g.Totals = *aux.Totals
	} else {
		g.Totals = GenderTotals{Male: aux.Male, Female: aux.Female}
	}
	return nil
}

// flowRef is an edge endpoint that may arrive as a node id string or, as the
// ETL emits, a numeric index into the node array.
type flowRef struct {
	id    string
	index int
	byIdx bool
}

func (r *flowRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		r.byIdx = false
		return json.Unmarshal(data, &r.id)
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	r.index = n
	r.byIdx = true
	return nil
}

// resolve maps the reference to a node id, or "" when out of range.
func (r flowRef) resolve(nodes []FlowNode) string {
	if !r.byIdx {
		return r.id
	}
	if r.index < 0 || r.index >= len(nodes) {
		return ""
	}
	return nodes[r.index].ID
}

// UnmarshalJSON reads the raw sankey document. Edges may appear under
// "links" (ETL) or "edges", with endpoints as indexes or ids; both are
// normalized to id-based FlowEdges. Unresolvable endpoints drop the edge.
func (g *FlowGraph) UnmarshalJSON(data []byte) error {
	var aux struct {
		Nodes []FlowNode `json:"nodes"`
		Links []struct {
			Source flowRef `json:"source"`
			Target flowRef `json:"target"`
			Value  float64 `json:"value"`
		} `json:"links"`
		Edges []struct {
			Source flowRef `json:"source"`
			Target flowRef `json:"target"`
			Value  float64 `json:"value"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	g.Nodes = aux.Nodes
	links := aux.Links
	if len(links) == 0 {
		links = aux.Edges
	}

	g.Edges = make([]FlowEdge, 0, len(links))
	for _, l := range links {
		src := l.Source.resolve(aux.Nodes)
		dst := l.Target.resolve(aux.Nodes)
		if src == "" || dst == "" {
			continue
		}
		g.Edges = append(g.Edges, FlowEdge{Source: src, Target: dst, Value: l.Value})
	}
	return nil
}
