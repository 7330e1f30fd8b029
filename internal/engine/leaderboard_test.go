package engine

import (
	"testing"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
)

func TestRecomputeLeaderboard_CollapsesSecondaryDimension(t *testing.T) {
	rows := []dataset.Record{
		{Municipality: "Cascavel", Year: 2020, Purpose: "CUSTEIO", Value: 100},
		{Municipality: "Cascavel", Year: 2020, Purpose: "INVESTIMENTO", Value: 50},
		{Municipality: "Toledo", Year: 2020, Purpose: "CUSTEIO", Value: 120},
	}

	got := RecomputeLeaderboard(rows, FilterState{}, 20)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Entity != "Cascavel" || got[0].Value != 150 || got[0].Rank != 1 {
		t.Errorf("rank 1 = %+v, want Cascavel/150/1", got[0])
	}
	if got[1].Entity != "Toledo" || got[1].Rank != 2 {
		t.Errorf("rank 2 = %+v, want Toledo/2", got[1])
	}
}

func TestRecomputeLeaderboard_SecondaryFilterRanksDirectly(t *testing.T) {
	rows := []dataset.Record{
		{Municipality: "Cascavel", Year: 2020, Purpose: "CUSTEIO", Value: 100},
		{Municipality: "Cascavel", Year: 2020, Purpose: "INVESTIMENTO", Value: 500},
		{Municipality: "Toledo", Year: 2020, Purpose: "CUSTEIO", Value: 120},
	}

	got := RecomputeLeaderboard(rows, FilterState{Purpose: "CUSTEIO"}, 20)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Entity != "Toledo" || got[0].Value != 120 {
		t.Errorf("with the purpose pinned, Toledo leads: %+v", got[0])
	}
}

func TestRecomputeLeaderboard_PerYearIndependence(t *testing.T) {
	rows := []dataset.Record{
		{Municipality: "Cascavel", Year: 2020, Value: 100},
		{Municipality: "Toledo", Year: 2020, Value: 200},
		{Municipality: "Cascavel", Year: 2021, Value: 300},
		{Municipality: "Toledo", Year: 2021, Value: 150},
	}

	got := RecomputeLeaderboard(rows, FilterState{}, 20)

	rankOf := func(entity string, year int) int {
		for _, e := range got {
			if e.Entity == entity && e.Year == year {
				return e.Rank
			}
		}
		return 0
	}
	if rankOf("Toledo", 2020) != 1 || rankOf("Cascavel", 2020) != 2 {
		t.Errorf("2020 ranking wrong: %v", got)
	}
	if rankOf("Cascavel", 2021) != 1 || rankOf("Toledo", 2021) != 2 {
		t.Errorf("2021 ranking wrong: %v", got)
	}
}

func TestRecomputeLeaderboard_TopKTruncation(t *testing.T) {
	rows := []dataset.Record{
		{Municipality: "A", Year: 2020, Value: 400},
		{Municipality: "B", Year: 2020, Value: 300},
		{Municipality: "C", Year: 2020, Value: 200},
		{Municipality: "D", Year: 2020, Value: 100},
	}

	got := RecomputeLeaderboard(rows, FilterState{}, 2)
	if len(got) != 2 {
		t.Fatalf("expected top-2 only, got %d entries", len(got))
	}
	for _, e := range got {
		if e.Entity == "C" || e.Entity == "D" {
			t.Errorf("entity %s must be absent (unranked), never rank 0", e.Entity)
		}
	}
}

func TestRecomputeLeaderboard_RankDensity(t *testing.T) {
	// For every year: ranks form a strictly increasing dense sequence from
	// 1, and values never increase with rank.
	rows := []dataset.Record{
		{Municipality: "A", Year: 2020, Value: 100},
		{Municipality: "B", Year: 2020, Value: 100},
		{Municipality: "C", Year: 2020, Value: 80},
		{Municipality: "A", Year: 2021, Value: 10},
		{Municipality: "B", Year: 2021, Value: 90},
	}

	got := RecomputeLeaderboard(rows, FilterState{}, 20)

	perYear := make(map[int][]LeaderboardEntry)
	for _, e := range got {
		perYear[e.Year] = append(perYear[e.Year], e)
	}
	for year, entries := range perYear {
		for i, e := range entries {
			if e.Rank != i+1 {
				t.Errorf("year %d: rank at position %d is %d, want %d", year, i, e.Rank, i+1)
			}
			if i > 0 && entries[i-1].Value < e.Value {
				t.Errorf("year %d: value increases with rank: %v", year, entries)
			}
		}
	}
}

func TestRecomputeLeaderboard_AppliesPeriodFilter(t *testing.T) {
	rows := []dataset.Record{
		{Municipality: "A", Year: 2019, Value: 500},
		{Municipality: "B", Year: 2021, Value: 100},
	}

	got := RecomputeLeaderboard(rows, FilterState{YearMin: 2020}, 20)
	if len(got) != 1 || got[0].Entity != "B" {
		t.Errorf("period filter must drop 2019 rows, got %v", got)
	}
}
