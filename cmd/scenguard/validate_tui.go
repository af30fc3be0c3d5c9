package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/internal/policy"
	"github.com/ShayCichocki/scenguard/internal/runner"
	"github.com/ShayCichocki/scenguard/internal/tui"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

type runOutcome struct {
	report models.Report
	err    error
}

// runValidateTUI runs the validation behind the live terminal view.
func runValidateTUI(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, registry *policy.Registry) (retErr error) {
	// Recover from panics so the terminal is restored
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("panic in TUI run: %v", r)
		}
	}()

	// Suppress log output while the TUI is active (it corrupts the display)
	logger := zerolog.Nop()

	program, _ := tui.NewProgram(cfg.Corpus.Root)

	runDone := make(chan runOutcome, 1)
	go func() {
		rep, err := runValidation(ctx, cfg, registry, logger, validateOnly, func(event runner.Event) {
			program.Send(tui.RunEventMsg(event))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			program.Send(tui.RunFailedMsg{Err: err})
		} else {
			program.Send(tui.ReportMsg{Report: rep})
		}
		runDone <- runOutcome{report: rep, err: err}
	}()

	_, tuiErr := program.Run()

	// The user may quit mid-run, stop the remaining work before waiting.
	cancel()
	outcome := <-runDone

	if tuiErr != nil {
		return tuiErr
	}
	if outcome.err != nil && !errors.Is(outcome.err, context.Canceled) {
		return outcome.err
	}

	if err := saveReport(cfg, outcome.report, logger); err != nil {
		return err
	}

	if outcome.err != nil {
		return fmt.Errorf("validation interrupted: %w", outcome.err)
	}
	if !outcome.report.Summary.Success {
		return fmt.Errorf("%d critical failure(s) found", len(outcome.report.Summary.CriticalFailures))
	}
	return nil
}
