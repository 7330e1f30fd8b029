// Package api serves the dashboard views over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/agrodata-labs/sicorboard/internal/dataset"
	"github.com/agrodata-labs/sicorboard/internal/engine"
)

// Server is the dashboard API server. It owns the loaded dataset and swaps it
// atomically when the source files change, so in-flight requests always see a
// consistent dataset instance.
type Server struct {
	cfg    Config
	logger *slog.Logger
	cache  *snapshotCache

	current atomic.Pointer[engine.Engine]
}

// Config holds configuration for the API server.
type Config struct {
	DataFile      string
	ForecastsFile string
	Port          int
	Watch         bool

	LeaderboardSize int
	ProductTopK     int
	CacheSize       int

	Logger *slog.Logger
}

// NewServer loads the dataset and creates a server instance.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cache, err := newSnapshotCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}

	s := &Server{cfg: cfg, logger: logger, cache: cache}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine returns the engine over the currently loaded dataset.
func (s *Server) Engine() *engine.Engine {
	return s.current.Load()
}

// reload loads the dataset from disk and swaps it in. The snapshot cache is
// purged because its entries are keyed by dataset instance id and would only
// occupy space after the swap.
func (s *Server) reload() error {
	ds, err := dataset.Load(s.cfg.DataFile, s.cfg.ForecastsFile)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	eng, err := engine.New(engine.Config{
		Dataset:         ds,
		Logger:          s.logger,
		LeaderboardSize: s.cfg.LeaderboardSize,
		ProductTopK:     s.cfg.ProductTopK,
	})
	if err != nil {
		return err
	}
	s.current.Store(eng)
	s.cache.purge()
	s.logger.Info("dataset loaded",
		"file", s.cfg.DataFile,
		"dataset", ds.ID,
		"years", fmt.Sprintf("%d-%d", ds.Metadata.YearMin, ds.Metadata.YearMax),
		"municipalities", ds.Metadata.TotalMunicipalities)
	return nil
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("starting dashboard server", "addr", fmt.Sprintf("http://localhost:%d", s.cfg.Port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	r.Mount("/", s.Routes())

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchFiles watches the dataset files and reloads on change. The parent
// directories are watched rather than the files themselves because atomic
// writes (rename over the target) drop file-level watches.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	watched := map[string]bool{
		filepath.Base(s.cfg.DataFile): true,
	}
	dirs := map[string]bool{filepath.Dir(s.cfg.DataFile): true}
	if s.cfg.ForecastsFile != "" {
		watched[filepath.Base(s.cfg.ForecastsFile)] = true
		dirs[filepath.Dir(s.cfg.ForecastsFile)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch data directory", "dir", dir, "error", err)
			// Don't fail - continue without watching
		}
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Base(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("dataset file changed, reloading", "file", event.Name)
				if err := s.reload(); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
