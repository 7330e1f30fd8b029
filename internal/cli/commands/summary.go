package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agrodata-labs/sicorboard/internal/config"
	"github.com/agrodata-labs/sicorboard/internal/dataset"
	"github.com/agrodata-labs/sicorboard/internal/engine"
)

// SummaryOptions holds options for the summary command.
type SummaryOptions struct {
	Filter engine.FilterState
	Top    int
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	opts := &SummaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a dataset summary for one filter state",
		Long: `Load the dataset, compute a snapshot for the given filters, and print
the headline figures and top groups as tables.`,
		Example: `  # Whole dataset
  sicorboard summary

  # One year of PRONAF custeio
  sicorboard summary --year 2023 --program PRONAF --purpose CUSTEIO`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Filter.Year, "year", 0, "Restrict to a single year")
	cmd.Flags().IntVar(&opts.Filter.YearMin, "year-min", 0, "Lower year bound")
	cmd.Flags().IntVar(&opts.Filter.YearMax, "year-max", 0, "Upper year bound")
	cmd.Flags().IntVar(&opts.Filter.MonthMin, "month-min", 0, "Lower month bound (1-12)")
	cmd.Flags().IntVar(&opts.Filter.MonthMax, "month-max", 0, "Upper month bound (1-12)")
	cmd.Flags().StringVar(&opts.Filter.Purpose, "purpose", "", "Restrict to one purpose (finalidade)")
	cmd.Flags().StringVar(&opts.Filter.Program, "program", "", "Restrict to one program")
	cmd.Flags().StringVar(&opts.Filter.Product, "product", "", "Restrict to one product")
	cmd.Flags().StringVar(&opts.Filter.Municipality, "municipality", "", "Restrict to one municipality")
	cmd.Flags().IntVar(&opts.Top, "top", 10, "Rows to show per group table")

	return cmd
}

func runSummary(cmd *cobra.Command, opts *SummaryOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	ds, err := dataset.Load(cfg.DataFile, cfg.ForecastsFile)
	if err != nil {
		return err
	}
	eng, err := engine.New(engine.Config{
		Dataset:         ds,
		Logger:          logger,
		LeaderboardSize: cfg.LeaderboardSize,
		ProductTopK:     cfg.ProductTopK,
	})
	if err != nil {
		return err
	}

	snap := eng.Snapshot(opts.Filter)
	w := cmd.OutOrStdout()
	// Brazilian grouping for the large reais figures.
	p := message.NewPrinter(language.BrazilianPortuguese)

	fmt.Fprintf(w, "Dataset: %s (%d-%d)\n", cfg.DataFile, ds.Metadata.YearMin, ds.Metadata.YearMax)
	if !opts.Filter.IsZero() {
		fmt.Fprintf(w, "Filter:  %s\n", opts.Filter.Key())
	}
	fmt.Fprintln(w)

	kpi := table.NewWriter()
	kpi.SetOutputMirror(w)
	kpi.SetStyle(table.StyleLight)
	kpi.AppendHeader(table.Row{"KPI", "Value"})
	kpi.AppendRow(table.Row{"Total value (R$)", p.Sprintf("%.2f", snap.KPI.TotalValue)})
	kpi.AppendRow(table.Row{"Contracts", p.Sprintf("%d", snap.KPI.TotalContracts)})
	kpi.AppendRow(table.Row{"Area (ha)", p.Sprintf("%.1f", snap.KPI.TotalArea)})
	kpi.AppendRow(table.Row{"Avg value/contract (R$)", p.Sprintf("%.2f", snap.KPI.AvgValuePerContract)})
	if snap.KPI.YoYChange != nil {
		kpi.AppendRow(table.Row{"YoY change", p.Sprintf("%+.1f%%", *snap.KPI.YoYChange)})
	}
	kpi.Render()
	fmt.Fprintln(w)

	renderGroup(w, p, "Purpose", snap.ByPurpose, opts.Top)
	renderGroup(w, p, "Program", snap.ByProgram, opts.Top)
	renderGroup(w, p, "Product", snap.ByProduct, opts.Top)
	renderGroup(w, p, "Municipality", snap.ByMunicipality, opts.Top)

	return nil
}

func renderGroup(w io.Writer, p *message.Printer, name string, rows []engine.AggregateRow, top int) {
	if len(rows) == 0 {
		return
	}
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", name, "Value (R$)", "Contracts", "Area (ha)"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Rank,
			row.Label,
			p.Sprintf("%.2f", row.Value),
			p.Sprintf("%d", row.Contracts),
			p.Sprintf("%.1f", row.Area),
		})
	}
	t.Render()
	fmt.Fprintln(w)
}
