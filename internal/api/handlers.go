package api

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agrodata-labs/sicorboard/internal/engine"
)

// Dashboard returns the full snapshot for the request's filter state.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	eng := s.Engine()
	etag := snapshotETag(eng.Dataset().ID, f)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	s.writeJSON(w, s.cache.snapshot(eng, f))
}

// Metadata returns dataset bounds, totals and the available filter options.
func (s *Server) Metadata(w http.ResponseWriter, r *http.Request) {
	ds := s.Engine().Dataset()
	s.writeJSON(w, map[string]any{
		"datasetId": ds.ID,
		"metadata":  ds.Metadata,
		"filters":   ds.Filters,
	})
}

// FlowGraph returns the pruned program/purpose/product flow for the request's
// filter state.
func (s *Server) FlowGraph(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, s.cache.snapshot(s.Engine(), f).Flow)
}

// Leaderboard returns the per-year municipality ranking. A k query parameter
// overrides the configured ranking depth; it bypasses the snapshot cache
// because the snapshot is computed at the configured depth.
func (s *Server) Leaderboard(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	eng := s.Engine()
	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil || k <= 0 {
			http.Error(w, fmt.Sprintf("invalid k: %q", raw), http.StatusBadRequest)
			return
		}
		rows := engine.RecomputeLeaderboard(eng.Dataset().Leaderboard, f, k)
		s.writeJSON(w, rows)
		return
	}
	s.writeJSON(w, s.cache.snapshot(eng, f).Leaderboard)
}

// Forecasts returns the period-filtered prediction series for one
// series/model pair. 404 covers both unknown pairs and models the generator
// could not train.
func (s *Server) Forecasts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	series := chi.URLParam(r, "series")
	model := chi.URLParam(r, "model")
	fc, ok := s.Engine().Forecast(series, model, f)
	if !ok {
		http.Error(w, fmt.Sprintf("no forecast for %s/%s", series, model), http.StatusNotFound)
		return
	}
	s.writeJSON(w, fc)
}

// Healthz reports liveness and the currently loaded dataset instance.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "ok",
		"dataset": s.Engine().Dataset().ID,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// snapshotETag derives a strong ETag from the dataset instance id and the
// canonical filter key. Snapshots are deterministic for that pair, and a
// reload mints a new dataset id, so the tag never outlives its data.
func snapshotETag(datasetID string, f engine.FilterState) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(datasetID))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(f.Key()))
	return fmt.Sprintf("%q", strconv.FormatUint(h.Sum64(), 16))
}
