package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
)

// Config holds engine construction parameters.
type Config struct {
	Dataset *dataset.Dataset
	Logger  *slog.Logger
	// LeaderboardSize is the per-year ranking depth (default 20).
	LeaderboardSize int
	// ProductTopK truncates the product roll-up (0 = keep all groups).
	ProductTopK int
}

// Engine computes derived views over one immutable dataset. It holds no
// per-computation state: every Snapshot call is a full stateless pass, so a
// single Engine is safe for concurrent readers.
type Engine struct {
	ds     *dataset.Dataset
	logger *slog.Logger
	k      int
	topK   int
}

// New creates an engine over a loaded dataset.
func New(cfg Config) (*Engine, error) {
	if cfg.Dataset == nil {
		return nil, fmt.Errorf("engine: dataset is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	k := cfg.LeaderboardSize
	if k <= 0 {
		k = DefaultLeaderboardSize
	}
	return &Engine{ds: cfg.Dataset, logger: logger, k: k, topK: cfg.ProductTopK}, nil
}

// Dataset returns the engine's dataset.
func (e *Engine) Dataset() *dataset.Dataset { return e.ds }

// Snapshot is every derived view for one filter state, computed together so
// they are mutually consistent. Nothing in it outlives the call that
// produced it; callers may memoize whole snapshots keyed by
// (DatasetID, Filter.Key()).
type Snapshot struct {
	DatasetID string      `json:"datasetId"`
	Filter    FilterState `json:"filter"`

	Metadata dataset.Metadata `json:"metadata"`

	ByYear         []AggregateRow `json:"byYear"`
	ByMonth        []AggregateRow `json:"byMonth"`
	ByPurpose      []AggregateRow `json:"byPurpose"`
	ByProgram      []AggregateRow `json:"byProgram"`
	ByProduct      []AggregateRow `json:"byProduct"`
	ByMunicipality []AggregateRow `json:"byMunicipality"`

	Flow        dataset.FlowGraph    `json:"flowGraph"`
	Leaderboard []LeaderboardEntry   `json:"leaderboard"`
	KPI         KPI                  `json:"kpi"`
	Gender      dataset.GenderTotals `json:"gender"`
}

// Snapshot recomputes all derived views for the given filter state.
func (e *Engine) Snapshot(f FilterState) *Snapshot {
	s := &Snapshot{
		DatasetID: e.ds.ID,
		Filter:    f,
		Metadata:  e.ds.Metadata,
		Gender:    e.ds.Gender.Totals,
	}

	aggregate := func(c dataset.Collection, dim Dimension, opts AggregateOptions) []AggregateRow {
		return AggregateBy(FilterRecords(e.ds.Records(c), c, f), dim, opts)
	}

	ranked := AggregateOptions{AssignRank: true}
	s.ByYear = aggregate(dataset.CollectionYear, DimYear, AggregateOptions{})
	s.ByMonth = aggregate(dataset.CollectionMonth, DimMonth, AggregateOptions{})
	s.ByPurpose = aggregate(dataset.CollectionPurpose, DimPurpose, ranked)
	s.ByProgram = aggregate(dataset.CollectionProgram, DimProgram, ranked)
	s.ByProduct = aggregate(dataset.CollectionProduct, DimProduct, AggregateOptions{AssignRank: true, TopK: e.topK})
	s.ByMunicipality = aggregate(dataset.CollectionMunicipality, DimMunicipality, ranked)

	s.Flow = PruneFlow(e.ds.Flow, f)
	s.Leaderboard = RecomputeLeaderboard(e.ds.Leaderboard, f, e.k)

	var municipalArea float64
	for _, r := range s.ByMunicipality {
		municipalArea += r.Area
	}
	// The dashboard initializes its window to the dataset's year range, so
	// an unbounded filter anchors YoY on the latest loaded year.
	_, yearMax := f.yearBounds()
	if yearMax == 0 {
		yearMax = e.ds.Metadata.YearMax
	}
	s.KPI = ComputeKPI(e.primarySlice(s), s.ByYear, municipalArea, f.HasCategorical(), yearMax)

	e.logger.Debug("snapshot computed",
		"dataset", s.DatasetID,
		"filter", f.Key(),
		"purposes", len(s.ByPurpose),
		"flowEdges", len(s.Flow.Edges),
		"leaderboard", len(s.Leaderboard))
	return s
}

// primarySlice picks the aggregate the KPIs are derived from: the roll-up of
// the most specific active categorical selection, or the year roll-up when
// only the period narrows the data.
func (e *Engine) primarySlice(s *Snapshot) []AggregateRow {
	switch {
	case s.Filter.Municipality != "":
		return s.ByMunicipality
	case s.Filter.Product != "":
		return s.ByProduct
	case s.Filter.Program != "":
		return s.ByProgram
	case s.Filter.Purpose != "":
		return s.ByPurpose
	default:
		return s.ByYear
	}
}

// Forecast returns the period-filtered forecast for one series/model pair.
func (e *Engine) Forecast(series, model string, f FilterState) (dataset.Forecast, bool) {
	return SelectForecast(e.ds, series, model, f)
}
