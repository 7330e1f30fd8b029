package engine

import (
	"testing"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
)

func TestAggregateBy_GroupSumRank(t *testing.T) {
	records := []dataset.Record{
		{Year: 2020, Program: "P1", Value: 100},
		{Year: 2020, Program: "P2", Value: 300},
		{Year: 2021, Program: "P1", Value: 150},
	}

	got := AggregateBy(records, DimProgram, AggregateOptions{AssignRank: true})
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Label != "P2" || got[0].Value != 300 || got[0].Rank != 1 {
		t.Errorf("rank 1 = %+v, want P2/300/1", got[0])
	}
	if got[1].Label != "P1" || got[1].Value != 250 || got[1].Rank != 2 {
		t.Errorf("rank 2 = %+v, want P1/250/2", got[1])
	}
}

func TestAggregateBy_StableTies(t *testing.T) {
	// Equal values keep first-appearance order; this is load-bearing for
	// deterministic output, not an accident of the sort used.
	records := []dataset.Record{
		{Program: "B", Value: 100},
		{Program: "A", Value: 100},
		{Program: "C", Value: 100},
	}

	got := AggregateBy(records, DimProgram, AggregateOptions{})
	want := []string{"B", "A", "C"}
	for i, label := range want {
		if got[i].Label != label {
			t.Errorf("position %d: got %q, want %q (ties must keep input order)", i, got[i].Label, label)
		}
	}
}

func TestAggregateBy_TopKAfterRanking(t *testing.T) {
	records := []dataset.Record{
		{Product: "SOJA", Value: 500},
		{Product: "MILHO", Value: 400},
		{Product: "TRIGO", Value: 300},
		{Product: "CAFE", Value: 200},
	}

	got := AggregateBy(records, DimProduct, AggregateOptions{AssignRank: true, TopK: 2})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows after truncation, got %d", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("ranks must be assigned before truncation: %+v", got)
	}
}

func TestAggregateBy_CarriesAuxiliaryCode(t *testing.T) {
	records := []dataset.Record{
		{Municipality: "Cascavel", MunicipalityCode: 4104808, Value: 100},
		{Municipality: "Cascavel", MunicipalityCode: 9999999, Value: 50}, // later code ignored
	}

	got := AggregateBy(records, DimMunicipality, AggregateOptions{})
	if len(got) != 1 || got[0].Code != 4104808 {
		t.Errorf("auxiliary code must come from the first record per key, got %+v", got)
	}
	if got[0].Value != 150 {
		t.Errorf("value sum = %v, want 150", got[0].Value)
	}
}

func TestAggregateBy_SumsAllMeasures(t *testing.T) {
	records := []dataset.Record{
		{Purpose: "CUSTEIO", Value: 100, Contracts: 3, Area: 10.5},
		{Purpose: "CUSTEIO", Value: 50, Contracts: 2, Area: 4.5},
	}

	got := AggregateBy(records, DimPurpose, AggregateOptions{})
	if got[0].Value != 150 || got[0].Contracts != 5 || got[0].Area != 15 {
		t.Errorf("measure sums wrong: %+v", got[0])
	}
}

func TestAggregateBy_Conservation(t *testing.T) {
	// Sum of value over the output equals sum of value over the (filtered)
	// input, for any filter state.
	records := []dataset.Record{
		{Purpose: "CUSTEIO", Year: 2019, Value: 120.5},
		{Purpose: "INVESTIMENTO", Year: 2020, Value: 310.25},
		{Purpose: "CUSTEIO", Year: 2021, Value: 99.75},
		{Purpose: "COMERCIALIZACAO", Year: 2021, Value: 42},
	}

	for _, f := range []FilterState{
		{},
		{YearMin: 2020},
		{Purpose: "CUSTEIO"},
		{Purpose: "CUSTEIO", YearMax: 2020},
	} {
		filtered := FilterRecords(records, dataset.CollectionPurpose, f)
		var wantTotal float64
		for _, r := range filtered {
			wantTotal += r.Value
		}

		rows := AggregateBy(filtered, DimPurpose, AggregateOptions{})
		if got := SumValue(rows); got != wantTotal {
			t.Errorf("filter %q: aggregated total %v, input total %v", f.Key(), got, wantTotal)
		}
	}
}
