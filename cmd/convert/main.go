// Command convert converts COVID-19 time-series files between provider
// layouts.
//
//	convert <input-format> <output-format> <input-file>...
//
// Aspect-layout inputs take exactly three files, in the order confirmed,
// recovered, dead. Outputs are written into OUTPUT_DIR. When DATABASE_URL
// is set the converted dataset is also copied into PostgreSQL.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/covidconv/internal/config"
	"github.com/JonMunkholm/covidconv/internal/core"
	_ "github.com/JonMunkholm/covidconv/internal/core/formats" // Register all formats
	"github.com/JonMunkholm/covidconv/internal/logging"
	"github.com/JonMunkholm/covidconv/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 3 {
		fmt.Fprintf(stderr, "syntax: convert <input-format> <output-format> <input-file>...\n")
		fmt.Fprintf(stderr, "formats: %s\n", strings.Join(core.Names(), ", "))
		return 1
	}

	// A missing .env is normal; the environment wins over the file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	// Logs go to stderr so stdout only carries the confirmation.
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, stderr)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := core.Request{
		InputFormat:  args[0],
		OutputFormat: args[1],
		Inputs:       args[2:],
	}

	// Usage errors are reported before the export database is contacted.
	if _, _, err := core.CheckRequest(req); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", core.FormatUserError(err))
		return 1
	}

	conv := &core.Converter{OutputDir: cfg.Output.Dir}

	if cfg.Database.Enabled() {
		exp, pool, err := store.Open(ctx, cfg.Database)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", core.FormatUserError(err))
			return 1
		}
		defer pool.Close()
		conv.Exporter = exp
	}

	result, err := conv.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", core.FormatUserError(err))
		return 1
	}

	fmt.Fprintf(stdout, "Output written to %s\n", strings.Join(result.Outputs, ", "))
	return 0
}
