// Command pixrank ranks the photos in a directory with the Elo rating
// system: it globs for .jpg files, presents them pairwise in random order
// and lets the user pick the better photo. After the configured number of
// rounds the ranking is persisted and reported.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixrank/pixrank/internal/adapters/discovery"
	"github.com/pixrank/pixrank/internal/adapters/judge"
	"github.com/pixrank/pixrank/internal/adapters/photoio"
	"github.com/pixrank/pixrank/internal/adapters/statestore"
	"github.com/pixrank/pixrank/internal/app"
	"github.com/pixrank/pixrank/internal/config"
	"github.com/pixrank/pixrank/pkg/logger"
	"github.com/pixrank/pixrank/pkg/metrics"
)

// Metrics HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// CLI defines the command-line interface. Flags left unset fall back to the
// layered configuration (defaults -> YAML file -> PIXRANK_* env).
var CLI struct {
	PhotoDir string `arg:"" help:"Directory to scan for .jpg photos." type:"existingdir"`

	Rounds      *int     `short:"r" help:"Number of passes through the photo set."`
	KFactor     *float64 `name:"k-factor" help:"Maximum score swing per match-up."`
	StateFile   *string  `help:"Rating-state JSON file, relative to the photo directory."`
	ReportFile  *string  `help:"Ranked report file, relative to the photo directory."`
	LogLevel    *string  `help:"Log verbosity: debug, info, warn, error."`
	MetricsAddr *string  `help:"Expose Prometheus metrics on this address while ranking runs."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("pixrank"),
		kong.Description("Rank photos by pairwise comparison using the Elo rating system."),
		kong.UsageOnError(),
	)

	if err := run(); err != nil {
		os.Stderr.WriteString("pixrank: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("flush logs: " + err.Error() + "\n")
		}
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM. Cancellation aborts the
	// run at the next match-up boundary; completed match-ups are kept.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// State and report paths are relative to the photo directory, matching
	// where earlier runs left their state.
	if err := os.Chdir(CLI.PhotoDir); err != nil {
		return fmt.Errorf("enter photo directory: %w", err)
	}

	sessionID := uuid.NewString()
	log.Info(ctx, "starting ranking session",
		logger.String("session_id", sessionID),
		logger.String("photo_dir", CLI.PhotoDir),
		logger.Int("rounds", cfg.Rounds),
		logger.Float64("k_factor", cfg.KFactor))

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(statestore.NewStore()),
		app.WithScanner(discovery.NewScanner()),
		app.WithLoader(photoio.NewLoader(photoio.WithMaxEdge(cfg.MaxEdge))),
		app.WithJudge(judge.NewTerminal(os.Stdin, os.Stdout)),
		app.WithRounds(cfg.Rounds),
		app.WithKFactor(cfg.KFactor),
		app.WithStateFile(cfg.StateFile),
		app.WithReportFile(cfg.ReportFile),
	)

	return svc.Run(ctx)
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cfg *config.Config) {
	if CLI.Rounds != nil {
		cfg.Rounds = *CLI.Rounds
	}
	if CLI.KFactor != nil {
		cfg.KFactor = *CLI.KFactor
	}
	if CLI.StateFile != nil {
		cfg.StateFile = *CLI.StateFile
	}
	if CLI.ReportFile != nil {
		cfg.ReportFile = *CLI.ReportFile
	}
	if CLI.LogLevel != nil {
		cfg.LogLevel = *CLI.LogLevel
	}
	if CLI.MetricsAddr != nil {
		cfg.MetricsAddr = *CLI.MetricsAddr
	}
}

// serveMetrics exposes /metrics for the duration of the ranking session.
// It never touches the rating table.
func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server failed", logger.Error(err))
	}
}
