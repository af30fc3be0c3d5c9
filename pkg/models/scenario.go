package models

// Scenario classifies how a database resource is allowed to be used.
type Scenario string

const (
	// ScenarioConfigOnly is for reference datasets consumed as configuration.
	// Application code must not touch these resources.
	ScenarioConfigOnly Scenario = "CONFIG_ONLY"
	// ScenarioMixed is for resources accessed through configuration and a
	// service layer, with no business logic or analytics on top.
	ScenarioMixed Scenario = "MIXED"
	// ScenarioLogicHeavy is for resources that back business logic and
	// analytics workloads.
	ScenarioLogicHeavy Scenario = "LOGIC_HEAVY"
)

// Valid returns true if the scenario is a known value.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioConfigOnly, ScenarioMixed, ScenarioLogicHeavy:
		return true
	default:
		return false
	}
}

// AllScenarios returns the known scenarios in declaration order.
func AllScenarios() []Scenario {
	return []Scenario{ScenarioConfigOnly, ScenarioMixed, ScenarioLogicHeavy}
}

// Criticality represents the business impact tier of a resource.
type Criticality string

const (
	// CriticalityLow is for resources whose loss has minimal impact.
	CriticalityLow Criticality = "LOW"
	// CriticalityMedium is for resources with moderate business impact.
	CriticalityMedium Criticality = "MEDIUM"
	// CriticalityCritical is for resources the business cannot operate without.
	CriticalityCritical Criticality = "CRITICAL"
)

// Valid returns true if the criticality is a known value.
func (c Criticality) Valid() bool {
	switch c {
	case CriticalityLow, CriticalityMedium, CriticalityCritical:
		return true
	default:
		return false
	}
}
