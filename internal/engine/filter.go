// Package engine implements the filter/re-aggregation core: given an
// immutable dataset and a filter state, it recomputes every derived view
// (per-dimension roll-ups, pruned flow graph, leaderboard, KPIs) in one
// synchronous pass. Every function here is pure; identical inputs yield
// identical outputs, which is what lets callers memoize snapshots.
package engine

import (
	"fmt"
	"strings"
)

// FilterState is the user's active selection, passed by value into every
// recomputation. Zero values mean "unset": 0 for numeric bounds, "" for
// categorical selections. The engine never mutates a FilterState.
type FilterState struct {
	// Year, when set, overrides both year bounds with that single year.
	Year    int `json:"year,omitempty"`
	YearMin int `json:"yearMin,omitempty"`
	YearMax int `json:"yearMax,omitempty"`

	// Month bounds only constrain the boundary years of the window.
	MonthMin int `json:"monthMin,omitempty"`
	MonthMax int `json:"monthMax,omitempty"`

	Purpose      string `json:"purpose,omitempty"`
	Program      string `json:"program,omitempty"`
	Product      string `json:"product,omitempty"`
	Municipality string `json:"municipality,omitempty"`
}

// yearBounds resolves the effective year window, applying the exact-year
// override. A zero bound stays unbounded.
func (f FilterState) yearBounds() (int, int) {
	if f.Year != 0 {
		return f.Year, f.Year
	}
	return f.YearMin, f.YearMax
}

// InPeriod reports whether a record period falls inside the active window.
// A record without a month (annual rows) counts as month 1. Month bounds
// apply only at the window's boundary years; absent bounds are unbounded.
func (f FilterState) InPeriod(year, month int) bool {
	yearMin, yearMax := f.yearBounds()
	if month == 0 {
		month = 1
	}

	if yearMin != 0 {
		if year < yearMin {
			return false
		}
		if year == yearMin && f.MonthMin != 0 && month < f.MonthMin {
			return false
		}
	}
	if yearMax != 0 {
		if year > yearMax {
			return false
		}
		if year == yearMax && f.MonthMax != 0 && month > f.MonthMax {
			return false
		}
	}
	return true
}

// HasCategorical reports whether any categorical selection narrows the data.
func (f FilterState) HasCategorical() bool {
	return f.Purpose != "" || f.Program != "" || f.Product != "" || f.Municipality != ""
}

// IsZero reports whether the state applies no restriction at all.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}

// Key returns a canonical representation of the state, suitable as a cache
// key. Two states with the same restrictions always produce the same key.
func (f FilterState) Key() string {
	var b strings.Builder
	yearMin, yearMax := f.yearBounds()
	fmt.Fprintf(&b, "y=%d-%d;m=%d-%d", yearMin, yearMax, f.MonthMin, f.MonthMax)
	fmt.Fprintf(&b, ";fin=%s;prog=%s;prod=%s;mun=%s",
		f.Purpose, f.Program, f.Product, f.Municipality)
	return b.String()
}
