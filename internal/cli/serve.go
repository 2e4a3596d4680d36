package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/runnerr0/historyremover/internal/background"
	"github.com/runnerr0/historyremover/internal/config"
	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/metrics"
	"github.com/runnerr0/historyremover/internal/storage"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	c.override(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := newLogger(c.globals, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.serve(ctx, cfg, log)
}

func (c *ServeCommand) override(cfg *config.Config) {
	if c.Host != "" {
		cfg.Daemon.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Daemon.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
}

// handler builds the daemon's HTTP handler over store. Default settings are
// written on first start.
func (c *ServeCommand) handler(ctx context.Context, cfg *config.Config, store *storage.SQLiteStore, log *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := background.NewRouter(background.Deps{
		History:          store,
		Bookmarks:        store,
		Settings:         store,
		Logger:           log,
		Metrics:          metrics.NewCollector(reg),
		BatchSize:        cfg.Deletion.BatchSize,
		MaxBookmarkDepth: cfg.Bookmarks.MaxDepth,
	})
	if err := router.Install(ctx); err != nil {
		return nil, fmt.Errorf("install default settings: %w", err)
	}

	return messaging.NewServer(router, messaging.ServerConfig{
		Version:           c.version,
		Token:             cfg.Daemon.AuthToken,
		MaxRequestSize:    cfg.Daemon.MaxRequestSize,
		RequestsPerSecond: cfg.Daemon.RequestsPerSecond,
		Burst:             cfg.Daemon.Burst,
		Metrics:           metrics.Handler(reg),
		Logger:            log,
	}), nil
}

func (c *ServeCommand) serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}
	store, err := storage.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	h, err := c.handler(ctx, cfg, store, log)
	if err != nil {
		return err
	}

	addr := cfg.Daemon.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.Daemon.AuthToken == "" {
		log.Warn("daemon.auth_token is empty; /message accepts unauthenticated requests")
	}

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		log.Info("historyremover listening", slog.String("addr", addr), slog.String("db", dbPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
