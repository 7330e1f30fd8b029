package engine

import (
	"math"
	"testing"
)

func TestComputeKPI_YoYChange(t *testing.T) {
	byYear := []AggregateRow{
		{Label: "2021", Value: 250},
		{Label: "2020", Value: 400},
	}

	kpi := ComputeKPI(byYear, byYear, 0, false, 2021)
	if kpi.YoYChange == nil {
		t.Fatal("expected a YoY change")
	}
	if math.Abs(*kpi.YoYChange - -37.5) > 1e-9 {
		t.Errorf("YoYChange = %v, want -37.5", *kpi.YoYChange)
	}
}

func TestComputeKPI_YoYNilWhenYearMissing(t *testing.T) {
	byYear := []AggregateRow{{Label: "2021", Value: 250}}

	if kpi := ComputeKPI(byYear, byYear, 0, false, 2021); kpi.YoYChange != nil {
		t.Errorf("missing previous year must yield nil, got %v", *kpi.YoYChange)
	}
	if kpi := ComputeKPI(byYear, byYear, 0, false, 2019); kpi.YoYChange != nil {
		t.Errorf("missing current year must yield nil, got %v", *kpi.YoYChange)
	}
}

func TestComputeKPI_AvgValuePerContract(t *testing.T) {
	primary := []AggregateRow{
		{Value: 300, Contracts: 2},
		{Value: 100, Contracts: 2},
	}

	kpi := ComputeKPI(primary, nil, 0, true, 2021)
	if kpi.AvgValuePerContract != 100 {
		t.Errorf("avg = %v, want 100", kpi.AvgValuePerContract)
	}

	kpi = ComputeKPI([]AggregateRow{{Value: 300}}, nil, 0, true, 2021)
	if kpi.AvgValuePerContract != 0 {
		t.Errorf("zero contracts must yield 0, got %v", kpi.AvgValuePerContract)
	}
}

func TestComputeKPI_MunicipalAreaOverride(t *testing.T) {
	primary := []AggregateRow{{Value: 100, Area: 10}}

	// No categorical filter: the municipality slice is the area source.
	kpi := ComputeKPI(primary, nil, 42.5, false, 2021)
	if kpi.TotalArea != 42.5 {
		t.Errorf("area must come from the municipality aggregate, got %v", kpi.TotalArea)
	}

	// With a categorical filter the primary slice's own area is used.
	kpi = ComputeKPI(primary, nil, 42.5, true, 2021)
	if kpi.TotalArea != 10 {
		t.Errorf("area must come from the primary slice, got %v", kpi.TotalArea)
	}
}

func TestComputeKPI_Totals(t *testing.T) {
	primary := []AggregateRow{
		{Value: 100.5, Contracts: 3, Area: 7},
		{Value: 199.5, Contracts: 1, Area: 3},
	}

	kpi := ComputeKPI(primary, nil, 0, true, 2021)
	if kpi.TotalValue != 300 || kpi.TotalContracts != 4 || kpi.TotalArea != 10 {
		t.Errorf("totals wrong: %+v", kpi)
	}
}
