// Package cli provides the command-line interface for sicorboard.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrodata-labs/sicorboard/internal/cli/commands"
	"github.com/agrodata-labs/sicorboard/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sicorboard",
		Short: "Sicorboard - Rural Credit Dashboard Engine",
		Long: `Sicorboard serves interactive dashboard views over pre-aggregated
SICOR rural credit data (Banco Central do Brasil).

It loads the ETL's aggregated JSON artifacts, re-filters and re-aggregates
them per request, and exposes the derived views over a local HTTP API.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
SICOR rural credit dashboard engine
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sicorboard.yaml)")
	rootCmd.PersistentFlags().String("data-file", "", "Path to the aggregated dataset JSON")
	rootCmd.PersistentFlags().String("forecasts-file", "", "Path to the forecasts JSON")
	rootCmd.PersistentFlags().Int("leaderboard-size", 0, "Per-year ranking depth for the bump chart")
	rootCmd.PersistentFlags().Int("product-top-k", 0, "Truncate the product roll-up to the top K groups (0 = all)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
