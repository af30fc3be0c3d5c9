package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/internal/server"
	"github.com/ShayCichocki/scenguard/internal/store"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

var (
	serveAddr       string
	serveDB         string
	servePolicyFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports and on-demand validation over HTTP",
	Long: `Start an HTTP server exposing the compliance reports.

Endpoints:
  GET  /healthz             Liveness probe
  GET  /api/v1/report       The most recent persisted report
  GET  /api/v1/summary      The summary of the most recent report
  GET  /api/v1/policies     The registered resource policies
  POST /api/v1/validate     Run a validation and return the report

Report endpoints require a report database (--db). Validation runs are
executed against the configured corpus root; when a database is configured
each run is persisted as well.

Settings can also come from a .env file, the configuration files, or
SCENGUARD_* environment variables.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to the configured server.addr)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Read and persist reports in a SQLite database at this path")
	serveCmd.Flags().StringVar(&servePolicyFile, "policy-file", "", "Merge policies from a YAML file over the built-in inventory")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("db") {
		cfg.Report.DB = serveDB
	}
	if cmd.Flags().Changed("policy-file") {
		cfg.Policy.File = servePolicyFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	deps := server.Dependencies{
		Registry: registry,
		Logger:   logger,
	}

	if cfg.Report.DB != "" {
		db, err := store.Open(cfg.Report.DB)
		if err != nil {
			return fmt.Errorf("open report database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate report database: %w", err)
		}
		deps.Reports = db
	}

	deps.Validator = server.ValidatorFunc(func(ctx context.Context, resources []string) (models.Report, error) {
		rep, err := runValidation(ctx, cfg, registry, logger, resources, nil)
		if err != nil {
			return models.Report{}, err
		}
		if err := saveReport(cfg, rep, logger); err != nil {
			logger.Error().Err(err).Msg("persist report")
		}
		return rep, nil
	})

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies:    deps,
	})

	logger.Info().Str("addr", cfg.Server.Addr).Str("corpus", cfg.Corpus.Root).Msg("starting report server")
	return api.Start()
}
