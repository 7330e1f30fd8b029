package engine

import (
	"sort"
	"strconv"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
)

// Dimension selects the grouping key for an aggregation pass.
type Dimension int

const (
	DimYear Dimension = iota
	DimMonth
	DimPurpose
	DimProgram
	DimProduct
	DimMunicipality
)

// String returns the dimension name used in API routes and labels.
func (d Dimension) String() string {
	switch d {
	case DimYear:
		return "year"
	case DimMonth:
		return "month"
	case DimPurpose:
		return "purpose"
	case DimProgram:
		return "program"
	case DimProduct:
		return "product"
	case DimMunicipality:
		return "municipality"
	default:
		return "unknown"
	}
}

// keyOf extracts a record's value for this dimension.
func (d Dimension) keyOf(r dataset.Record) string {
	switch d {
	case DimYear:
		return strconv.Itoa(r.Year)
	case DimMonth:
		return strconv.Itoa(r.Year*100 + r.Month)
	case DimPurpose:
		return r.Purpose
	case DimProgram:
		return r.Program
	case DimProduct:
		return r.Product
	case DimMunicipality:
		return r.Municipality
	default:
		return ""
	}
}

// AggregateRow is one derived roll-up group. Rank 0 means unranked. Code is
// the auxiliary identifier carried from the first record seen for the key
// (the municipality IBGE code, for the municipality dimension).
type AggregateRow struct {
	Label     string  `json:"label"`
	Code      int64   `json:"code,omitempty"`
	Value     float64 `json:"value"`
	Contracts int64   `json:"contracts"`
	Area      float64 `json:"area"`
	Rank      int     `json:"rank,omitempty"`
}

// AggregateOptions control ranking and truncation of an aggregation pass.
type AggregateOptions struct {
	AssignRank bool
	TopK       int // 0 = keep all groups
}

// AggregateBy groups records by the dimension value, sums the measures per
// group, and sorts groups by value descending. The sort is stable: groups
// tying on value keep their first-appearance order, which keeps output
// deterministic for identical inputs. Dense ranks 1..N are assigned after
// sorting when requested; TopK truncates after ranking.
func AggregateBy(records []dataset.Record, dim Dimension, opts AggregateOptions) []AggregateRow {
	index := make(map[string]int, len(records))
	rows := make([]AggregateRow, 0, len(records))

	for _, r := range records {
		key := dim.keyOf(r)
		i, seen := index[key]
		if !seen {
			i = len(rows)
			index[key] = i
			rows = append(rows, AggregateRow{Label: key, Code: r.MunicipalityCode})
		}
		rows[i].Value += r.Value
		rows[i].Contracts += r.Contracts
		rows[i].Area += r.Area
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })

	if opts.AssignRank {
		for i := range rows {
			rows[i].Rank = i + 1
		}
	}
	if opts.TopK > 0 && len(rows) > opts.TopK {
		rows = rows[:opts.TopK]
	}
	return rows
}

// SumValue totals the value measure across rows. Conservation holds: the sum
// over an aggregation's output equals the sum over its filtered input.
func SumValue(rows []AggregateRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Value
	}
	return total
}
