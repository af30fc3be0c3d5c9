// Package rules evaluates collected evidence against scenario rules. The
// engine runs a fixed check sequence per resource and emits one result per
// check. Evaluation is pure: no filesystem access, no mutation of the
// evidence it is handed.
package rules

import (
	"fmt"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

// Engine evaluates resources against the scenario rule table.
type Engine struct {
	rules map[models.Scenario]models.ScenarioRule
}

// NewEngine builds an engine from a scenario rule table. The table is
// validated up front; an inconsistent or unknown-scenario rule aborts
// construction since a broken table is a configuration defect, not a
// per-resource finding.
func NewEngine(rules map[models.Scenario]models.ScenarioRule) (*Engine, error) {
	for scenario, rule := range rules {
		if !scenario.Valid() {
			return nil, fmt.Errorf("rule table: unknown scenario %q", scenario)
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule table: %s: %w", scenario, err)
		}
	}
	return &Engine{rules: rules}, nil
}

// Evaluate runs the fixed check sequence for one resource:
// separation, completeness, infrastructure, monitoring, documentation.
// Each check contributes exactly one result, in that order.
func (e *Engine) Evaluate(policy models.ResourcePolicy, ev models.Evidence) ([]models.CheckResult, error) {
	rule, ok := e.rules[policy.Scenario]
	if !ok {
		return nil, fmt.Errorf("no rule for scenario %q", policy.Scenario)
	}

	return []models.CheckResult{
		e.checkSeparation(policy, rule, ev),
		e.checkCompleteness(policy, rule, ev),
		e.checkInfrastructure(policy, ev),
		e.checkMonitoring(policy, ev),
		e.checkDocumentation(policy, ev),
	}, nil
}

// checkSeparation verifies no forbidden category carries evidence. Multiple
// offending categories still yield a single FAIL whose details and file
// references cover all of them.
func (e *Engine) checkSeparation(policy models.ResourcePolicy, rule models.ScenarioRule, ev models.Evidence) models.CheckResult {
	result := newResult(policy, models.CheckSeparation)

	var offending []models.Category
	var refs []string
	for _, c := range models.AllCategories() {
		if rule.Forbids(c) && ev.Found(c) {
			offending = append(offending, c)
			refs = append(refs, ev.Files(c)...)
		}
	}

	if len(offending) > 0 {
		result.Status = models.StatusFail
		result.Severity = failSeverity(models.CheckSeparation, policy.Scenario)
		result.Message = fmt.Sprintf("%s resource has evidence in forbidden categories", policy.Scenario)
		for _, c := range offending {
			result.Details = append(result.Details,
				fmt.Sprintf("forbidden category %s: %d artifact(s)", c, len(ev.Files(c))))
		}
		result.FileReferences = refs
		return result
	}

	anyAllowed := false
	for _, c := range rule.Allowed {
		if ev.Found(c) {
			anyAllowed = true
			break
		}
	}
	if !anyAllowed && !rule.AllowEmpty {
		result.Status = models.StatusWarning
		result.Severity = models.SeverityWarning
		result.Message = "no evidence found in any allowed category"
		return result
	}

	result.Status = models.StatusPass
	result.Severity = models.SeverityInfo
	result.Message = "usage respects scenario separation"
	return result
}

// checkCompleteness verifies every required category has evidence. Missing
// required evidence is a data-quality gap, not a policy violation, so the
// outcome is WARNING rather than FAIL.
func (e *Engine) checkCompleteness(policy models.ResourcePolicy, rule models.ScenarioRule, ev models.Evidence) models.CheckResult {
	result := newResult(policy, models.CheckCompleteness)

	if len(rule.Required) == 0 {
		result.Status = models.StatusPass
		result.Severity = models.SeverityInfo
		result.Message = "scenario has no required categories"
		return result
	}

	var missing []models.Category
	for _, c := range rule.Required {
		if !ev.Found(c) {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		result.Status = models.StatusWarning
		result.Severity = models.SeverityWarning
		result.Message = fmt.Sprintf("%s resource is missing required evidence", policy.Scenario)
		for _, c := range missing {
			result.Details = append(result.Details, fmt.Sprintf("missing category: %s", c))
		}
		for _, c := range missing {
			result.Details = appendSkipNotes(result.Details, ev, c)
		}
		return result
	}

	result.Status = models.StatusPass
	result.Severity = models.SeverityInfo
	result.Message = "all required categories have evidence"
	for _, c := range rule.Required {
		result.FileReferences = append(result.FileReferences, ev.Files(c)...)
	}
	return result
}

// checkInfrastructure verifies provisioning artifacts reference the
// resource. Every resource must appear in infrastructure definitions
// regardless of scenario.
func (e *Engine) checkInfrastructure(policy models.ResourcePolicy, ev models.Evidence) models.CheckResult {
	result := newResult(policy, models.CheckInfrastructure)

	if !ev.Found(models.CategoryInfrastructure) {
		result.Status = models.StatusFail
		result.Severity = failSeverity(models.CheckInfrastructure, policy.Scenario)
		result.Message = "no infrastructure definition references this resource"
		result.Details = appendSkipNotes(result.Details, ev, models.CategoryInfrastructure)
		return result
	}

	result.Status = models.StatusPass
	result.Severity = models.SeverityInfo
	result.Message = "infrastructure definitions found"
	result.FileReferences = ev.Files(models.CategoryInfrastructure)
	return result
}

// checkMonitoring verifies monitoring definitions reference the resource.
// Absence is an operational hygiene gap, so the outcome is WARNING.
func (e *Engine) checkMonitoring(policy models.ResourcePolicy, ev models.Evidence) models.CheckResult {
	result := newResult(policy, models.CheckMonitoring)

	if !ev.Found(models.CategoryMonitoring) {
		result.Status = models.StatusWarning
		result.Severity = models.SeverityWarning
		result.Message = "no monitoring configuration references this resource"
		result.Details = appendSkipNotes(result.Details, ev, models.CategoryMonitoring)
		return result
	}

	result.Status = models.StatusPass
	result.Severity = models.SeverityInfo
	result.Message = "monitoring configuration found"
	result.FileReferences = ev.Files(models.CategoryMonitoring)
	return result
}

// checkDocumentation verifies ownership documentation references the
// resource, and notes when the registered owner contact is absent from it.
func (e *Engine) checkDocumentation(policy models.ResourcePolicy, ev models.Evidence) models.CheckResult {
	result := newResult(policy, models.CheckDocumentation)

	if !ev.Found(models.CategoryDocumentation) {
		result.Status = models.StatusWarning
		result.Severity = models.SeverityWarning
		result.Message = "no documentation references this resource"
		result.Details = appendSkipNotes(result.Details, ev, models.CategoryDocumentation)
		return result
	}

	result.Status = models.StatusPass
	result.Severity = models.SeverityInfo
	result.Message = "documentation found"
	result.FileReferences = ev.Files(models.CategoryDocumentation)
	if policy.Owner != "" && !ev.OwnerDocumented {
		result.Details = append(result.Details,
			fmt.Sprintf("owner contact %s is not mentioned in the documentation", policy.Owner))
	}
	return result
}

// PolicyLookupFailure builds the synthetic result reported for a resource
// that has no registered policy. The run continues for other resources.
func PolicyLookupFailure(resource string, err error) models.CheckResult {
	return models.CheckResult{
		Resource: resource,
		Check:    models.CheckPolicyLookup,
		Status:   models.StatusFail,
		Severity: failSeverity(models.CheckPolicyLookup, ""),
		Message:  err.Error(),
	}
}

// newResult seeds a result with the resource identity shared by all checks.
func newResult(policy models.ResourcePolicy, check models.Check) models.CheckResult {
	return models.CheckResult{
		Resource: policy.Name,
		Scenario: policy.Scenario,
		Check:    check,
	}
}

// appendSkipNotes records artifacts that were skipped while scanning the
// category, so an unreadable artifact stays distinguishable from a clean
// "no evidence found".
func appendSkipNotes(details []string, ev models.Evidence, c models.Category) []string {
	for _, s := range ev.SkippedIn(c) {
		details = append(details, fmt.Sprintf("skipped %s: %s", s.Path, s.Reason))
	}
	return details
}
