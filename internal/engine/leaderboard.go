package engine

import (
	"sort"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
)

// DefaultLeaderboardSize is the per-period ranking depth for the bump chart.
const DefaultLeaderboardSize = 20

// LeaderboardEntry is one ranked entity for one period. Ranks are dense,
// 1..K, assigned independently per year. An entity missing from a year's
// entries is unranked for that year, never rank 0.
type LeaderboardEntry struct {
	Entity string  `json:"entity"`
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	Rank   int     `json:"rank"`
}

// RecomputeLeaderboard rebuilds the per-year top-K municipality ranking from
// the leaderboard source rows. Rows are period-filtered first. When a
// purpose selection is active, rows are filtered by it and ranked directly;
// otherwise rows are collapsed by (entity, year), summing value across the
// purpose dimension. Ties keep input order (stable sort), and entries are
// returned in ascending year order, rank 1 first within each year.
func RecomputeLeaderboard(rows []dataset.Record, f FilterState, k int) []LeaderboardEntry {
	if k <= 0 {
		k = DefaultLeaderboardSize
	}

	filtered := FilterRecords(rows, dataset.CollectionLeaderboard, f)

	// Collapse across the secondary dimension. With a purpose selection the
	// equality filter has already pinned it, so each (entity, year) pair
	// appears once and the collapse degenerates to a copy.
	type pairKey struct {
		entity string
		year   int
	}
	index := make(map[pairKey]int, len(filtered))
	collapsed := make([]LeaderboardEntry, 0, len(filtered))
	for _, r := range filtered {
		key := pairKey{r.Municipality, r.Year}
		i, seen := index[key]
		if !seen {
			i = len(collapsed)
			index[key] = i
			collapsed = append(collapsed, LeaderboardEntry{Entity: r.Municipality, Year: r.Year})
		}
		collapsed[i].Value += r.Value
	}

	byYear := make(map[int][]LeaderboardEntry)
	years := make([]int, 0)
	for _, e := range collapsed {
		if _, seen := byYear[e.Year]; !seen {
			years = append(years, e.Year)
		}
		byYear[e.Year] = append(byYear[e.Year], e)
	}
	sort.Ints(years)

	out := make([]LeaderboardEntry, 0, len(collapsed))
	for _, year := range years {
		entries := byYear[year]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
		if len(entries) > k {
			entries = entries[:k]
		}
		for i := range entries {
			entries[i].Rank = i + 1
		}
		out = append(out, entries...)
	}
	return out
}
