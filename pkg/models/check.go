package models

// Check identifies a compliance check in the fixed evaluation sequence.
type Check string

const (
	// CheckPolicyLookup reports a resource that has no registered policy.
	CheckPolicyLookup Check = "policy_lookup"
	// CheckSeparation verifies no forbidden-category evidence exists.
	CheckSeparation Check = "scenario_separation"
	// CheckCompleteness verifies every required category has evidence.
	CheckCompleteness Check = "scenario_completeness"
	// CheckInfrastructure verifies provisioning artifacts exist.
	CheckInfrastructure Check = "infrastructure_presence"
	// CheckMonitoring verifies monitoring definitions exist.
	CheckMonitoring Check = "monitoring_presence"
	// CheckDocumentation verifies ownership documentation exists.
	CheckDocumentation Check = "documentation_presence"
)

// checkOrder fixes the evaluation and reporting sequence.
var checkOrder = map[Check]int{
	CheckPolicyLookup:   0,
	CheckSeparation:     1,
	CheckCompleteness:   2,
	CheckInfrastructure: 3,
	CheckMonitoring:     4,
	CheckDocumentation:  5,
}

// Valid returns true if the check is a known value.
func (c Check) Valid() bool {
	_, ok := checkOrder[c]
	return ok
}

// Rank returns the check's position in the fixed sequence. Unknown checks
// sort after known ones.
func (c Check) Rank() int {
	if r, ok := checkOrder[c]; ok {
		return r
	}
	return len(checkOrder)
}

// Status is the outcome of a single check.
type Status string

const (
	// StatusPass indicates the check found no problems.
	StatusPass Status = "PASS"
	// StatusFail indicates a policy violation.
	StatusFail Status = "FAIL"
	// StatusWarning indicates a gap that does not block compliance.
	StatusWarning Status = "WARNING"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarning:
		return true
	default:
		return false
	}
}

// Severity grades how serious a check outcome is.
type Severity string

const (
	// SeverityCritical marks violations that fail a validation run.
	SeverityCritical Severity = "CRITICAL"
	// SeverityWarning marks gaps worth fixing that do not gate the run.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo marks informational outcomes, including passes.
	SeverityInfo Severity = "INFO"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// CheckResult is the outcome of one check against one resource.
type CheckResult struct {
	// Resource is the resource the check ran against.
	Resource string `json:"resource"`
	// Scenario is the resource's declared scenario at evaluation time.
	Scenario Scenario `json:"scenario"`
	// Check names the check that produced this result.
	Check Check `json:"check"`
	// Status is the outcome of the check.
	Status Status `json:"status"`
	// Severity grades the outcome.
	Severity Severity `json:"severity"`
	// Message is a one-line human readable explanation.
	Message string `json:"message"`
	// Details carries supporting lines such as offending categories.
	Details []string `json:"details"`
	// FileReferences lists the corpus-relative artifacts behind the outcome.
	FileReferences []string `json:"file_references"`
}

// IsCriticalFailure returns true for results that gate a validation run.
func (r CheckResult) IsCriticalFailure() bool {
	return r.Status == StatusFail && r.Severity == SeverityCritical
}
