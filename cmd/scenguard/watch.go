package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/internal/watch"
)

var (
	watchDB         string
	watchVerbose    bool
	watchWorkers    int
	watchMatcher    string
	watchPolicyFile string
	watchDebounce   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [corpus]",
	Short: "Watch a corpus and revalidate on changes",
	Long: `Watch a corpus directory and rerun the validation whenever its
artifacts change.

An initial validation runs immediately. After that, filesystem changes are
debounced so a burst of edits triggers a single revalidation. Each cycle
prints the console report; with --db every report is also persisted, and
'scenguard serve' will pick up the newest one.

Hidden directories such as .git are ignored.

Examples:
  scenguard watch                     # Watch the configured corpus
  scenguard watch ./corpus --db reports.db
  scenguard watch --debounce 5s       # Settle longer before revalidating`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDB, "db", "", "Persist each report to a SQLite database at this path")
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "List file references in the console report")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 0, "Concurrent scan workers (0 uses the configured default)")
	watchCmd.Flags().StringVar(&watchMatcher, "matcher", "", "Reference matcher: substring or word")
	watchCmd.Flags().StringVar(&watchPolicyFile, "policy-file", "", "Merge policies from a YAML file over the built-in inventory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "How long to wait after the last change before revalidating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyWatchFlags(cfg, cmd, args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	watcher, err := watch.New(cfg.Corpus.Root, watch.Config{
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	revalidate := func(ctx context.Context) {
		fmt.Printf("\n[%s] validating %s\n", time.Now().Format("15:04:05"), cfg.Corpus.Root)

		rep, runErr := runValidation(ctx, cfg, registry, logger, nil, nil)
		if runErr != nil {
			if errors.Is(runErr, context.Canceled) {
				return
			}
			logger.Error().Err(runErr).Msg("validation run failed")
			return
		}

		if err := saveReport(cfg, rep, logger); err != nil {
			logger.Error().Err(err).Msg("persist report")
		}
		if err := renderReport(cfg, rep); err != nil {
			logger.Error().Err(err).Msg("render report")
		}
	}

	// Validate once before settling into the watch loop.
	revalidate(ctx)

	fmt.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", watcher.Root())
	if err := watcher.Run(ctx, revalidate); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println("Watch stopped.")
	return nil
}

// applyWatchFlags overlays explicit command line flags onto the loaded
// configuration.
func applyWatchFlags(cfg *config.Config, cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		cfg.Corpus.Root = args[0]
	}
	if cmd.Flags().Changed("db") {
		cfg.Report.DB = watchDB
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Report.Verbose = watchVerbose
	}
	if cmd.Flags().Changed("workers") {
		cfg.Run.Workers = watchWorkers
	}
	if cmd.Flags().Changed("matcher") {
		cfg.Scan.Matcher = watchMatcher
	}
	if cmd.Flags().Changed("policy-file") {
		cfg.Policy.File = watchPolicyFile
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Watch.Debounce = watchDebounce
	}
}
