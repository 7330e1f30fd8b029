// Package dataset defines the immutable in-memory dataset the engine
// computes over, and the loader that reads it from the ETL's JSON artifacts
// (aggregated.json and forecasts.json).
//
// The dataset is write-once: loaded at startup (or on a file-change reload,
// which swaps the whole structure), never mutated afterwards. Malformed or
// missing fields decode to empty collections or zero measures rather than
// failing the load: a partially missing slice should degrade one chart, not
// the whole session.
package dataset

// Metadata carries dataset-wide bounds and totals computed by the ETL.
type Metadata struct {
	YearMin            int     `json:"anoMin"`
	YearMax            int     `json:"anoMax"`
	TotalMunicipalities int    `json:"totalMunicipios"`
	TotalContracts     int64   `json:"totalContratos"`
	TotalValue         float64 `json:"totalValor"`
	TotalArea          float64 `json:"totalArea"`
	LastUpdated        string  `json:"ultimaAtualizacao,omitempty"`
	LatestPeriod       string  `json:"periodoMaisRecente,omitempty"`
}

// FilterOptions lists the categorical values the UI may offer as selections.
type FilterOptions struct {
	Purposes []string `json:"finalidades"`
	Programs []string `json:"programas"`
}

// GenderTotals holds summed contract value by declared gender.
type GenderTotals struct {
	Male   float64 `json:"masculino"`
	Female float64 `json:"feminino"`
}

// Gender is the gender summary slice. The ETL currently emits only the
// totals object; ByYearMonth is populated when a detailed series is present.
type Gender struct {
	ByYearMonth []Record     `json:"byYearMonth,omitempty"`
	Totals      GenderTotals `json:"totals"`
}

// ForecastPoint is one predicted month with confidence bounds.
type ForecastPoint struct {
	Year    int     `json:"ano" mapstructure:"ano"`
	Month   int     `json:"mes" mapstructure:"mes"`
	Value   float64 `json:"valor" mapstructure:"valor"`
	Lower80 float64 `json:"lower_80" mapstructure:"lower_80"`
	Upper80 float64 `json:"upper_80" mapstructure:"upper_80"`
	Lower95 float64 `json:"lower_95" mapstructure:"lower_95"`
	Upper95 float64 `json:"upper_95" mapstructure:"upper_95"`
}

// ForecastMetrics holds validation metrics for one trained model.
type ForecastMetrics struct {
	MAPE float64 `json:"mape" mapstructure:"mape"`
	RMSE float64 `json:"rmse" mapstructure:"rmse"`
	R2   float64 `json:"r2" mapstructure:"r2"`
}

// Forecast is one model's prediction series. Err is set when the generator
// could not train the model ("Insufficient data", model unavailable).
type Forecast struct {
	Predictions []ForecastPoint `json:"predictions" mapstructure:"predictions"`
	Metrics     ForecastMetrics `json:"metrics" mapstructure:"metrics"`
	Err         string          `json:"error,omitempty" mapstructure:"error"`
}

// Dataset is the full immutable input. Collections are named after the
// primary dimension they are grouped by.
type Dataset struct {
	// ID identifies this loaded instance. A reload mints a new ID, which is
	// what invalidates caller-side memoization and ETags.
	ID string `json:"id"`

	Metadata Metadata      `json:"metadata"`
	Filters  FilterOptions `json:"filters"`

	ByYear         []Record `json:"byAno"`
	ByMonth        []Record `json:"byMes"`
	ByPurpose      []Record `json:"byFinalidade"`
	ByProgram      []Record `json:"byPrograma"`
	ByProduct      []Record `json:"byProduto"`
	ByMunicipality []Record `json:"byMunicipio"`

	Gender Gender    `json:"byGenero"`
	Flow   FlowGraph `json:"sankey"`

	// Leaderboard is the bump-chart source: per-municipality, per-year rows.
	Leaderboard []Record `json:"bump"`

	// Forecasts maps series name (total, custeio, investimento,
	// comercializacao) to model name (xgboost, lightgbm, randomforest).
	Forecasts map[string]map[string]Forecast `json:"forecasts,omitempty"`
}

// Collection names one of the dataset's record collections. The engine's
// filter cascade keys its capability table off this.
type Collection int

const (
	CollectionYear Collection = iota
	CollectionMonth
	CollectionPurpose
	CollectionProgram
	CollectionProduct
	CollectionMunicipality
	CollectionLeaderboard
)

// String returns the collection name.
func (c Collection) String() string {
	switch c {
	case CollectionYear:
		return "byYear"
	case CollectionMonth:
		return "byMonth"
	case CollectionPurpose:
		return "byPurpose"
	case CollectionProgram:
		return "byProgram"
	case CollectionProduct:
		return "byProduct"
	case CollectionMunicipality:
		return "byMunicipality"
	case CollectionLeaderboard:
		return "leaderboard"
	default:
		return "unknown"
	}
}

// Records returns the named collection's rows.
func (d *Dataset) Records(c Collection) []Record {
	switch c {
	case CollectionYear:
		return d.ByYear
	case CollectionMonth:
		return d.ByMonth
	case CollectionPurpose:
		return d.ByPurpose
	case CollectionProgram:
		return d.ByProgram
	case CollectionProduct:
		return d.ByProduct
	case CollectionMunicipality:
		return d.ByMunicipality
	case CollectionLeaderboard:
		return d.Leaderboard
	default:
		return nil
	}
}
