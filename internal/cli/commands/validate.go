package commands

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/agrodata-labs/sicorboard/internal/config"
	"github.com/agrodata-labs/sicorboard/internal/dataset"
	"github.com/agrodata-labs/sicorboard/internal/engine"
)

// relTolerance is the allowed relative drift between the ETL's stored totals
// and the totals recomputed from the collections. The ETL rounds values per
// group, so exact equality is not expected.
const relTolerance = 0.005

type checkResult struct {
	Name   string
	Detail string
	OK     bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset files for internal consistency",
		Long: `Load the dataset and verify the invariants the dashboard relies on:
flow graph referential integrity, totals conservation across the
aggregated collections, leaderboard rank density, and forecast bounds.`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg := config.FromContext(cmd.Context())

	ds, err := dataset.Load(cfg.DataFile, cfg.ForecastsFile)
	if err != nil {
		return err
	}

	var results []checkResult
	results = append(results, checkFlow(ds))
	results = append(results, checkTotals(ds)...)
	results = append(results, checkLeaderboard(ds, cfg.LeaderboardSize))
	results = append(results, checkForecasts(ds))

	w := cmd.OutOrStdout()
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Result", "Detail"})

	failed := 0
	for _, r := range results {
		status := "PASS"
		if !r.OK {
			status = "FAIL"
			failed++
		}
		t.AppendRow(table.Row{r.Name, status, r.Detail})
	}
	t.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	fmt.Fprintf(w, "All %d checks passed\n", len(results))
	return nil
}

// checkFlow verifies every edge references known nodes and crosses exactly
// one layer boundary in flow order (program -> purpose -> product).
func checkFlow(ds *dataset.Dataset) checkResult {
	bad := 0
	for _, e := range ds.Flow.Edges {
		src, srcOK := ds.Flow.Node(e.Source)
		dst, dstOK := ds.Flow.Node(e.Target)
		if !srcOK || !dstOK {
			bad++
			continue
		}
		firstHop := src.Layer == dataset.LayerProgram && dst.Layer == dataset.LayerPurpose
		secondHop := src.Layer == dataset.LayerPurpose && dst.Layer == dataset.LayerProduct
		if !firstHop && !secondHop {
			bad++
		}
	}
	detail := fmt.Sprintf("%d nodes, %d edges", len(ds.Flow.Nodes), len(ds.Flow.Edges))
	if bad > 0 {
		detail = fmt.Sprintf("%d of %d edges malformed", bad, len(ds.Flow.Edges))
	}
	return checkResult{Name: "flow integrity", Detail: detail, OK: bad == 0}
}

// checkTotals recomputes the headline totals from the year collection and
// compares them against the ETL's stored metadata.
func checkTotals(ds *dataset.Dataset) []checkResult {
	var value, area float64
	var contracts int64
	for _, r := range ds.ByYear {
		value += r.Value
		area += r.Area
		contracts += r.Contracts
	}

	compare := func(name string, got, want float64) checkResult {
		ok := want == 0 || math.Abs(got-want) <= relTolerance*math.Abs(want)
		detail := fmt.Sprintf("recomputed %.2f, stored %.2f", got, want)
		return checkResult{Name: name, Detail: detail, OK: ok}
	}

	return []checkResult{
		compare("total value", value, ds.Metadata.TotalValue),
		compare("total area", area, ds.Metadata.TotalArea),
		compare("total contracts", float64(contracts), float64(ds.Metadata.TotalContracts)),
	}
}

// checkLeaderboard recomputes the unfiltered leaderboard and verifies ranks
// are dense within every year.
func checkLeaderboard(ds *dataset.Dataset, k int) checkResult {
	rows := engine.RecomputeLeaderboard(ds.Leaderboard, engine.FilterState{}, k)
	lastRank := map[int]int{}
	for _, row := range rows {
		if row.Rank != lastRank[row.Year]+1 {
			return checkResult{
				Name:   "leaderboard ranks",
				Detail: fmt.Sprintf("year %d: rank %d after %d", row.Year, row.Rank, lastRank[row.Year]),
			}
		}
		lastRank[row.Year] = row.Rank
	}
	return checkResult{
		Name:   "leaderboard ranks",
		Detail: fmt.Sprintf("%d rows, %d years", len(rows), len(lastRank)),
		OK:     true,
	}
}

// checkForecasts verifies every trained model has predictions with sanely
// ordered confidence bounds.
func checkForecasts(ds *dataset.Dataset) checkResult {
	models, bad := 0, 0
	for _, series := range ds.Forecasts {
		for _, fc := range series {
			if fc.Err != "" {
				continue
			}
			models++
			if len(fc.Predictions) == 0 {
				bad++
				continue
			}
			for _, p := range fc.Predictions {
				if p.Lower95 > p.Lower80 || p.Lower80 > p.Value ||
					p.Value > p.Upper80 || p.Upper80 > p.Upper95 {
					bad++
					break
				}
			}
		}
	}
	detail := fmt.Sprintf("%d trained models", models)
	if bad > 0 {
		detail = fmt.Sprintf("%d of %d trained models malformed", bad, models)
	}
	return checkResult{Name: "forecast bounds", Detail: detail, OK: bad == 0}
}
