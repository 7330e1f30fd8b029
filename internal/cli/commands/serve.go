package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agrodata-labs/sicorboard/internal/api"
	"github.com/agrodata-labs/sicorboard/internal/config"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	Watch     bool
	CacheSize int
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long: `Start a local HTTP server exposing the dashboard views.

The server loads the aggregated dataset once, recomputes derived views per
request, and memoizes whole snapshots per filter state. With --watch it
reloads the dataset when the source files change on disk.`,
		Example: `  # Serve on the default port
  sicorboard serve

  # Serve on a custom port without file watching
  sicorboard serve --port 3000 --watch=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the dataset on file changes")
	cmd.Flags().IntVar(&opts.CacheSize, "cache-size", 0, "Snapshot cache size in entries")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	// Command flags override config file
	port := cfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := cfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}
	cacheSize := cfg.CacheSize
	if opts.CacheSize != 0 {
		cacheSize = opts.CacheSize
	}

	if _, err := os.Stat(cfg.DataFile); os.IsNotExist(err) {
		return fmt.Errorf("data file does not exist: %s", cfg.DataFile)
	}

	server, err := api.NewServer(api.Config{
		DataFile:        cfg.DataFile,
		ForecastsFile:   cfg.ForecastsFile,
		Port:            port,
		Watch:           watch,
		LeaderboardSize: cfg.LeaderboardSize,
		ProductTopK:     cfg.ProductTopK,
		CacheSize:       cacheSize,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting dashboard server on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
