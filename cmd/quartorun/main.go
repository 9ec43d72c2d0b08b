package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/quartorun/internal/config"
	"git.home.luguber.info/inful/quartorun/internal/metrics"
	"git.home.luguber.info/inful/quartorun/internal/pipeline"
	"git.home.luguber.info/inful/quartorun/internal/resolve"
	"git.home.luguber.info/inful/quartorun/internal/version"
	"git.home.luguber.info/inful/quartorun/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"quartorun.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Render struct {
	} `cmd:"" default:"1" help:"Render the configured input once and exit (container entrypoint)"`

	Watch struct {
		Debounce    time.Duration `help:"Delay before re-rendering after a change" default:"2s"`
		Every       time.Duration `help:"Additional periodic full re-render interval (0 disables)"`
		MetricsAddr string        `help:"Address to serve Prometheus metrics on (empty disables)"`
	} `cmd:"" help:"Render, then re-render whenever source documents change"`

	Version struct {
	} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	if ctx.Command() == "version" {
		fmt.Printf("quartorun %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose || cfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if cfg.Debug {
		slog.Debug("Effective configuration",
			"input_dir", cfg.InputDir,
			"output_dir", cfg.OutputDir,
			"input_file", cfg.InputFile,
			"format", cfg.Format,
			"log_level", cfg.LogLevel,
			"files_to_copy", cfg.FilesToCopy,
			"folders_to_copy", cfg.FoldersToCopy)
	}

	switch ctx.Command() {
	case "render":
		if err := runRender(cfg); err != nil {
			slog.Error("Render failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	}
}

func runRender(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return pipeline.NewRunner(cfg).Run(ctx)
}

func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := pipeline.NewRunner(cfg)

	if CLI.Watch.MetricsAddr != "" {
		reg := prom.NewRegistry()
		runner = runner.WithRecorder(metrics.NewPrometheusRecorder(reg))
		go serveMetrics(ctx, CLI.Watch.MetricsAddr, reg)
	}

	// Watch mode needs the resolved source directory before any rendering
	// happens, so the mount check and input resolution run up front rather
	// than inside the first run.
	if err := cfg.Validate(); err != nil {
		return err
	}
	docs, err := resolve.Resolve(cfg.InputDir, cfg.InputFile)
	if err != nil {
		return err
	}

	w := watch.New(runner, docs.Dir,
		watch.WithDebounce(CLI.Watch.Debounce),
		watch.WithInterval(CLI.Watch.Every))
	return w.Run(ctx)
}

func serveMetrics(ctx context.Context, addr string, reg *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Metrics server failed", "error", err)
	}
}
