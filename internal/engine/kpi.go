package engine

import (
	"strconv"
	"time"
)

// KPI holds the headline figures for the active filter state.
type KPI struct {
	TotalValue          float64 `json:"totalValue"`
	TotalContracts      int64   `json:"totalContracts"`
	TotalArea           float64 `json:"totalArea"`
	AvgValuePerContract float64 `json:"avgValuePerContract"`
	// YoYChange is the percentage change of the upper-bound year's total
	// against the year before it; nil when either total is zero or absent.
	YoYChange *float64 `json:"yoyChange"`
}

// ComputeKPI derives headline totals from an already-filtered primary
// aggregate. byYear must be the year-dimension aggregate under the same
// filter state (labels are years); it feeds the year-over-year change
// against yearMax, or the current calendar year when unbounded.
//
// When no categorical filter narrows the primary slice, area is taken from
// municipalArea (the municipality-dimension total) instead of the primary
// slice. The dataset's slices disagree on financed area and the municipality
// slice is the authoritative one; this override is the documented business
// rule, not a normalization to apply silently elsewhere.
func ComputeKPI(primary []AggregateRow, byYear []AggregateRow, municipalArea float64, hasCategorical bool, yearMax int) KPI {
	var kpi KPI
	for _, r := range primary {
		kpi.TotalValue += r.Value
		kpi.TotalContracts += r.Contracts
		kpi.TotalArea += r.Area
	}
	if !hasCategorical {
		kpi.TotalArea = municipalArea
	}

	if kpi.TotalContracts > 0 {
		kpi.AvgValuePerContract = kpi.TotalValue / float64(kpi.TotalContracts)
	}

	currentYear := yearMax
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}

	yearTotals := make(map[int]float64, len(byYear))
	for _, r := range byYear {
		if y, err := strconv.Atoi(r.Label); err == nil {
			yearTotals[y] += r.Value
		}
	}

	current, previous := yearTotals[currentYear], yearTotals[currentYear-1]
	if current != 0 && previous != 0 {
		change := (current - previous) / previous * 100
		kpi.YoYChange = &change
	}
	return kpi
}
