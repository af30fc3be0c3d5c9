// Package runner drives validation runs. It fans resources out to a
// bounded pool of workers, applies the scan and rule stages to each one,
// and collects the combined results for aggregation.
package runner

import (
	"time"
)

// EventType represents the type of runner event.
type EventType string

const (
	// EventRunStarted indicates a validation run has started.
	EventRunStarted EventType = "run_started"
	// EventResourceStarted indicates a resource is being scanned.
	EventResourceStarted EventType = "resource_started"
	// EventResourceCompleted indicates all checks for a resource finished.
	EventResourceCompleted EventType = "resource_completed"
	// EventRunCompleted indicates the entire run finished.
	EventRunCompleted EventType = "run_completed"
	// EventRunCancelled indicates the run stopped before covering every resource.
	EventRunCancelled EventType = "run_cancelled"
	// EventRunFailed indicates the run aborted on an evaluation error.
	EventRunFailed EventType = "run_failed"
)

// Event represents progress emitted during a validation run. These
// events feed the TUI and the progress log.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Resource is the name of the related resource, if applicable.
	Resource string
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Completed is the number of resources finished so far.
	Completed int
	// Total is the number of resources covered by the run.
	Total int
}
