package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/internal/runner"
)

var (
	validateJSON       bool
	validateOut        string
	validateDB         string
	validateTUI        bool
	validateVerbose    bool
	validateWorkers    int
	validateMatcher    string
	validatePolicyFile string
	validateOnly       []string
)

var validateCmd = &cobra.Command{
	Use:   "validate [corpus]",
	Short: "Validate a corpus against the scenario policies",
	Long: `Validate every registered resource against its scenario policy.

The corpus argument is the directory to scan and defaults to the configured
corpus root (the current directory unless overridden). For each resource the
run looks up its policy, collects evidence from the corpus, and evaluates
the check suite: scenario separation, scenario completeness, infrastructure
presence, monitoring presence, and documentation presence.

The command exits non-zero when any resource has a CRITICAL failure, when
a rule evaluation fails, or when the run is interrupted.

Output modes:
  (default)    Progress lines followed by the console report
  --json       JSON report on stdout, suitable for piping
  --out FILE   JSON report written to a file
  --tui        Live terminal view of the run

Examples:
  scenguard validate                      # Validate the configured corpus
  scenguard validate ./corpus --tui       # Watch the run live
  scenguard validate --out validation_results.json
  scenguard validate --only pagila --only employees
  scenguard validate --db reports.db      # Persist the report`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Write the report as JSON to stdout")
	validateCmd.Flags().StringVar(&validateOut, "out", "", "Write the JSON report to a file")
	validateCmd.Flags().StringVar(&validateDB, "db", "", "Persist the report to a SQLite database at this path")
	validateCmd.Flags().BoolVar(&validateTUI, "tui", false, "Show live progress in a terminal UI")
	validateCmd.Flags().BoolVar(&validateVerbose, "verbose", false, "List file references in the console report")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 0, "Concurrent scan workers (0 uses the configured default)")
	validateCmd.Flags().StringVar(&validateMatcher, "matcher", "", "Reference matcher: substring or word")
	validateCmd.Flags().StringVar(&validatePolicyFile, "policy-file", "", "Merge policies from a YAML file over the built-in inventory")
	validateCmd.Flags().StringSliceVar(&validateOnly, "only", nil, "Validate only the named resources (repeatable)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyValidateFlags(cfg, cmd, args)
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

	if validateTUI {
		return runValidateTUI(ctx, cancel, cfg, registry)
	}

	// Progress lines would corrupt a JSON report on stdout.
	var consume func(runner.Event)
	if !cfg.Report.JSON && cfg.Report.Out == "" {
		consume = consumeEventsConsole
	}

	rep, runErr := runValidation(ctx, cfg, registry, logger, validateOnly, consume)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := saveReport(cfg, rep, logger); err != nil {
		return err
	}
	if err := renderReport(cfg, rep); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("validation interrupted: %w", runErr)
	}
	if !rep.Summary.Success {
		return fmt.Errorf("%d critical failure(s) found", len(rep.Summary.CriticalFailures))
	}
	return nil
}

// applyValidateFlags overlays explicit command line flags onto the loaded
// configuration.
func applyValidateFlags(cfg *config.Config, cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		cfg.Corpus.Root = args[0]
	}
	if cmd.Flags().Changed("json") {
		cfg.Report.JSON = validateJSON
	}
	if cmd.Flags().Changed("out") {
		cfg.Report.Out = validateOut
	}
	if cmd.Flags().Changed("db") {
		cfg.Report.DB = validateDB
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Report.Verbose = validateVerbose
	}
	if cmd.Flags().Changed("workers") {
		cfg.Run.Workers = validateWorkers
	}
	if cmd.Flags().Changed("matcher") {
		cfg.Scan.Matcher = validateMatcher
	}
	if cmd.Flags().Changed("policy-file") {
		cfg.Policy.File = validatePolicyFile
	}
}
