package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/internal/policy"
	"github.com/ShayCichocki/scenguard/internal/rules"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

// DefaultWorkers is the pool size used when the configuration does not
// set one.
const DefaultWorkers = 4

// EvidenceScanner walks a corpus for references to a single resource.
type EvidenceScanner interface {
	Scan(ctx context.Context, resource string) (models.Evidence, error)
}

// Config contains configuration options for the Runner.
type Config struct {
	// Registry resolves resource names to their policies.
	Registry *policy.Registry
	// Scanner collects evidence for each resource.
	Scanner EvidenceScanner
	// Engine evaluates the checks for each resource.
	Engine *rules.Engine
	// Workers bounds how many resources are validated concurrently.
	// A value of one gives strictly sequential validation through the
	// same code path. Zero selects DefaultWorkers.
	Workers int
	// Logger receives run progress. The zero value discards output.
	Logger zerolog.Logger
}

// Runner validates a set of resources against their policies.
type Runner struct {
	registry *policy.Registry
	scanner  EvidenceScanner
	engine   *rules.Engine
	workers  int
	logger   zerolog.Logger

	// events carries progress updates to the TUI and progress log
	events  chan Event
	dropped atomic.Uint64
}

// New creates a Runner from cfg.
func New(cfg Config) (*Runner, error) {
	if cfg.Registry == nil {
		return nil, errors.New("runner: Registry is required")
	}
	if cfg.Scanner == nil {
		return nil, errors.New("runner: Scanner is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("runner: Engine is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{
		registry: cfg.Registry,
		scanner:  cfg.Scanner,
		engine:   cfg.Engine,
		workers:  workers,
		logger:   cfg.Logger,
		events:   make(chan Event, 100),
	}, nil
}

// Events returns the channel carrying run progress. The channel is
// closed when Run returns.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// DroppedEventCount returns how many events were dropped because the
// event channel was full.
func (r *Runner) DroppedEventCount() uint64 {
	return r.dropped.Load()
}

// Run validates the named resources and returns every check result.
// An empty resource list validates the whole registry. When ctx is
// cancelled, no further resources are dispatched, resources already
// being scanned run to completion, and the partial results are returned
// together with the context error. A rule evaluation failure aborts the
// run. Run may be called at most once per Runner.
func (r *Runner) Run(ctx context.Context, resources []string) ([]models.CheckResult, error) {
	defer close(r.events)

	targets := r.targets(resources)
	r.emit(Event{Type: EventRunStarted, Timestamp: time.Now(), Total: len(targets)})
	r.logger.Info().Int("resources", len(targets)).Int("workers", r.workers).Msg("validation run started")

	workers := r.workers
	if workers > len(targets) {
		workers = len(targets)
	}
	if workers < 1 {
		workers = 1
	}

	// runCtx stops dispatch on external cancellation and on the first
	// evaluation error.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		collected []models.CheckResult
		runErr    error
		completed int
	)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for resource := range jobs {
				// A resource handed out in the same instant the run was
				// cancelled or aborted is drained, not scanned.
				if runCtx.Err() != nil {
					continue
				}
				r.emit(Event{Type: EventResourceStarted, Resource: resource, Timestamp: time.Now(), Total: len(targets)})

				results, err := r.validateResource(runCtx, resource)

				mu.Lock()
				if err != nil {
					if runErr == nil {
						runErr = err
						cancel()
					}
					mu.Unlock()
					continue
				}
				collected = append(collected, results...)
				completed++
				done := completed
				mu.Unlock()

				r.emit(Event{Type: EventResourceCompleted, Resource: resource, Timestamp: time.Now(), Completed: done, Total: len(targets)})
			}
		}()
	}

dispatch:
	for _, resource := range targets {
		select {
		case jobs <- resource:
		case <-runCtx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	mu.Lock()
	results := collected
	err := runErr
	mu.Unlock()

	if err != nil {
		r.logger.Error().Err(err).Msg("validation run aborted")
		r.emit(Event{Type: EventRunFailed, Err: err, Timestamp: time.Now()})
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Warn().Int("completed", completed).Int("total", len(targets)).Msg("validation run cancelled")
		r.emit(Event{Type: EventRunCancelled, Err: ctxErr, Timestamp: time.Now(), Completed: completed, Total: len(targets)})
		return results, ctxErr
	}

	r.logger.Info().Int("results", len(results)).Msg("validation run completed")
	r.emit(Event{Type: EventRunCompleted, Timestamp: time.Now(), Completed: completed, Total: len(targets)})
	return results, nil
}

// validateResource runs the lookup, scan, and rule stages for a single
// resource. A missing policy becomes a synthetic failure result rather
// than an error. Scans run detached from the run context so a resource
// already in flight finishes even after cancellation.
func (r *Runner) validateResource(ctx context.Context, resource string) ([]models.CheckResult, error) {
	pol, err := r.registry.Lookup(resource)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			r.logger.Warn().Str("resource", resource).Msg("no policy registered")
			return []models.CheckResult{rules.PolicyLookupFailure(resource, err)}, nil
		}
		return nil, fmt.Errorf("look up policy for %s: %w", resource, err)
	}

	ev, err := r.scanner.Scan(context.WithoutCancel(ctx), resource)
	if err != nil {
		return nil, fmt.Errorf("scan evidence for %s: %w", resource, err)
	}

	results, err := r.engine.Evaluate(pol, ev)
	if err != nil {
		return nil, fmt.Errorf("evaluate checks for %s: %w", resource, err)
	}
	return results, nil
}

// targets resolves the resource list for a run, defaulting to every
// registered resource and dropping duplicates.
func (r *Runner) targets(resources []string) []string {
	if len(resources) == 0 {
		return r.registry.Names()
	}

	seen := make(map[string]bool, len(resources))
	targets := make([]string, 0, len(resources))
	for _, resource := range resources {
		if seen[resource] {
			continue
		}
		seen[resource] = true
		targets = append(targets, resource)
	}
	return targets
}

// emit sends an event to the events channel.
func (r *Runner) emit(event Event) {
	select {
	case r.events <- event:
	default:
		// Channel full, drop event to avoid blocking
		r.dropped.Add(1)
	}
}
