package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/internal/policy"
	"github.com/ShayCichocki/scenguard/internal/report"
	"github.com/ShayCichocki/scenguard/internal/rules"
	"github.com/ShayCichocki/scenguard/internal/runner"
	"github.com/ShayCichocki/scenguard/internal/scan"
	"github.com/ShayCichocki/scenguard/internal/store"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

// newLogger builds the process logger from the log configuration. Logs go
// to stderr so that reports on stdout stay machine-readable.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Log.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// signalContext derives a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nReceived interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// buildRegistry assembles the policy registry, merging the configured
// policy file over the built-in inventory when one is set.
func buildRegistry(cfg *config.Config) (*policy.Registry, error) {
	if cfg.Policy.File != "" {
		registry, err := policy.NewRegistryFromFile(cfg.Policy.File)
		if err != nil {
			return nil, fmt.Errorf("load policy file: %w", err)
		}
		return registry, nil
	}
	return policy.NewRegistry(), nil
}

// ownersFromPolicies maps resource names to owner contacts for the scanner.
func ownersFromPolicies(policies []models.ResourcePolicy) map[string]string {
	owners := make(map[string]string, len(policies))
	for _, p := range policies {
		if p.Owner != "" {
			owners[p.Name] = p.Owner
		}
	}
	return owners
}

// buildRunner wires the scanner, rule engine, and worker pool for one
// validation run. Runners are single-use, so every run builds a fresh one.
func buildRunner(cfg *config.Config, registry *policy.Registry, logger zerolog.Logger) (*runner.Runner, error) {
	matcher, err := scan.MatcherByName(cfg.Scan.Matcher)
	if err != nil {
		return nil, err
	}

	scanner := scan.New(cfg.Corpus.Root, scan.Config{
		Locations:   cfg.Scan.Locations,
		Matcher:     matcher,
		MaxFileSize: cfg.Corpus.MaxFileSize,
		Owners:      ownersFromPolicies(registry.All()),
		Logger:      logger,
	})

	engine, err := rules.NewEngine(registry.Rules())
	if err != nil {
		return nil, fmt.Errorf("build rule engine: %w", err)
	}

	return runner.New(runner.Config{
		Registry: registry,
		Scanner:  scanner,
		Engine:   engine,
		Workers:  cfg.Run.Workers,
		Logger:   logger,
	})
}

// runValidation performs one validation run and aggregates the report.
// The consume callback receives progress events when non-nil. On
// cancellation the partial report is returned together with the context
// error so callers can still render and persist what completed.
func runValidation(ctx context.Context, cfg *config.Config, registry *policy.Registry, logger zerolog.Logger, resources []string, consume func(runner.Event)) (models.Report, error) {
	r, err := buildRunner(cfg, registry, logger)
	if err != nil {
		return models.Report{}, err
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for event := range r.Events() {
			if consume != nil {
				consume(event)
			}
		}
	}()

	results, runErr := r.Run(ctx, resources)
	<-drained

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return models.Report{}, runErr
	}
	return report.Aggregate(cfg.Corpus.Root, results), runErr
}

// saveReport persists the report when a report database is configured.
func saveReport(cfg *config.Config, rep models.Report, logger zerolog.Logger) error {
	if cfg.Report.DB == "" {
		return nil
	}

	db, err := store.Open(cfg.Report.DB)
	if err != nil {
		return fmt.Errorf("open report database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate report database: %w", err)
	}
	if err := db.SaveReport(rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	logger.Info().Str("run_id", rep.RunID).Str("db", db.Path()).Msg("report persisted")
	return nil
}

// renderReport writes the report as JSON or as the console summary.
func renderReport(cfg *config.Config, rep models.Report) error {
	if cfg.Report.Out != "" {
		f, err := os.Create(cfg.Report.Out)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()

		if err := report.WriteJSON(f, rep); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", cfg.Report.Out)
		return nil
	}

	if cfg.Report.JSON {
		return report.WriteJSON(os.Stdout, rep)
	}
	return report.NewConsoleRenderer(os.Stdout, cfg.Report.Verbose).Render(rep)
}

// consumeEventsConsole prints run progress to stdout for headless runs.
func consumeEventsConsole(event runner.Event) {
	switch event.Type {
	case runner.EventRunStarted:
		fmt.Printf("[RUN] validating %d resource(s)\n", event.Total)
	case runner.EventResourceStarted:
		fmt.Printf("[SCAN] %s\n", event.Resource)
	case runner.EventResourceCompleted:
		fmt.Printf("[DONE] %s (%d/%d)\n", event.Resource, event.Completed, event.Total)
	case runner.EventRunCancelled:
		fmt.Printf("[CANCELLED] %d/%d resources validated\n", event.Completed, event.Total)
	case runner.EventRunFailed:
		fmt.Printf("[FAILED] %v\n", event.Err)
	}
}
