package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/agrodata-labs/sicorboard/internal/engine"
)

// parseFilter decodes a filter state from request query parameters. Absent
// parameters stay zero, which the engine treats as "no restriction".
func parseFilter(r *http.Request) (engine.FilterState, error) {
	q := r.URL.Query()
	var f engine.FilterState

	ints := []struct {
		name string
		dst  *int
	}{
		{"year", &f.Year},
		{"yearMin", &f.YearMin},
		{"yearMax", &f.YearMax},
		{"monthMin", &f.MonthMin},
		{"monthMax", &f.MonthMax},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return engine.FilterState{}, fmt.Errorf("invalid %s: %q", p.name, raw)
		}
		*p.dst = v
	}
	if f.MonthMin < 0 || f.MonthMin > 12 || f.MonthMax < 0 || f.MonthMax > 12 {
		return engine.FilterState{}, fmt.Errorf("month bounds must be between 1 and 12")
	}

	f.Purpose = q.Get("purpose")
	f.Program = q.Get("program")
	f.Product = q.Get("product")
	f.Municipality = q.Get("municipality")
	return f, nil
}
