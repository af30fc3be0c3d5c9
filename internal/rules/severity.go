package rules

import "github.com/ShayCichocki/scenguard/pkg/models"

// severityKey addresses the FAIL severity table.
type severityKey struct {
	check    models.Check
	scenario models.Scenario
}

// failSeverities grades FAIL outcomes by check and scenario. Adding a
// scenario or re-grading a check is a table change, not a control flow
// change. Combinations missing from the table are CRITICAL.
var failSeverities = map[severityKey]models.Severity{
	{models.CheckSeparation, models.ScenarioConfigOnly}: models.SeverityCritical,
	{models.CheckSeparation, models.ScenarioMixed}:      models.SeverityCritical,
	{models.CheckSeparation, models.ScenarioLogicHeavy}: models.SeverityCritical,

	{models.CheckInfrastructure, models.ScenarioConfigOnly}: models.SeverityCritical,
	{models.CheckInfrastructure, models.ScenarioMixed}:      models.SeverityCritical,
	{models.CheckInfrastructure, models.ScenarioLogicHeavy}: models.SeverityCritical,
}

// failSeverity returns the severity of a FAIL outcome for the check under
// the given scenario.
func failSeverity(check models.Check, scenario models.Scenario) models.Severity {
	if s, ok := failSeverities[severityKey{check, scenario}]; ok {
		return s
	}
	return models.SeverityCritical
}
