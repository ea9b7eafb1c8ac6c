// Command convertd serves conversions over HTTP.
package main

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

	"github.com/JonMunkholm/covidconv/internal/config"
	"github.com/JonMunkholm/covidconv/internal/core"
	_ "github.com/JonMunkholm/covidconv/internal/core/formats" // Register all formats
	"github.com/JonMunkholm/covidconv/internal/logging"
	"github.com/JonMunkholm/covidconv/internal/store"
	"github.com/JonMunkholm/covidconv/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"export", cfg.Database.Enabled(),
	)
	slog.Info("formats registered", "count", core.FormatCount(), "names", core.Names())

	var exporter core.Exporter
	if cfg.Database.Enabled() {
		exp, pool, err := store.Open(context.Background(), cfg.Database)
		if err != nil {
			slog.Error("failed to open export database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		exporter = exp
	}

	server := web.NewServer(cfg, exporter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runner is the part of *web.Server that serve drives.
type runner interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx is done, then shuts it down. It returns only
// after Shutdown has finished, so conversions in flight drain before the
// caller closes the export pool.
func serve(ctx context.Context, srv runner, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	return nil
}
