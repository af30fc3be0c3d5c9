package policy

import "github.com/ShayCichocki/scenguard/pkg/models"

// DefaultPolicies returns the built-in resource inventory. A policy file can
// extend or override these entries.
func DefaultPolicies() []models.ResourcePolicy {
	return []models.ResourcePolicy{
		{
			Name:        "periodic_table",
			Scenario:    models.ScenarioConfigOnly,
			Criticality: models.CriticalityLow,
			Owner:       "chemistry-team@company.com",
			Description: "Chemical element reference data",
		},
		{
			Name:        "world_happiness",
			Scenario:    models.ScenarioConfigOnly,
			Criticality: models.CriticalityLow,
			Owner:       "analytics-team@company.com",
			Description: "World happiness survey results",
		},
		{
			Name:        "titanic",
			Scenario:    models.ScenarioConfigOnly,
			Criticality: models.CriticalityLow,
			Owner:       "data-science-team@company.com",
			Description: "Passenger dataset for model training",
		},
		{
			Name:        "pagila",
			Scenario:    models.ScenarioMixed,
			Criticality: models.CriticalityMedium,
			Owner:       "development-team@company.com",
			Description: "DVD rental sample used by application development",
		},
		{
			Name:        "chinook",
			Scenario:    models.ScenarioMixed,
			Criticality: models.CriticalityMedium,
			Owner:       "media-team@company.com",
			Description: "Digital media catalog",
		},
		{
			Name:        "netflix",
			Scenario:    models.ScenarioMixed,
			Criticality: models.CriticalityMedium,
			Owner:       "content-team@company.com",
			Description: "Content catalog backing recommendations",
		},
		{
			Name:        "employees",
			Scenario:    models.ScenarioLogicHeavy,
			Criticality: models.CriticalityCritical,
			Owner:       "hr-team@company.com",
			Description: "Payroll and workforce records",
		},
		{
			Name:        "lego",
			Scenario:    models.ScenarioLogicHeavy,
			Criticality: models.CriticalityCritical,
			Owner:       "analytics-team@company.com",
			Description: "Product set data for business intelligence",
		},
		{
			Name:        "postgres_air",
			Scenario:    models.ScenarioLogicHeavy,
			Criticality: models.CriticalityCritical,
			Owner:       "operations-team@company.com",
			Description: "Flight operations and scheduling",
		},
	}
}

// DefaultRules returns the built-in rule for each scenario.
//
// CONFIG_ONLY resources are provisioned and observed but never referenced
// from application code. MIXED resources get configuration and a service
// layer but no logic on top. LOGIC_HEAVY resources must show business logic
// and analytics usage.
func DefaultRules() map[models.Scenario]models.ScenarioRule {
	return map[models.Scenario]models.ScenarioRule{
		models.ScenarioConfigOnly: {
			Allowed: []models.Category{
				models.CategoryInfrastructure,
				models.CategoryMonitoring,
				models.CategoryDocumentation,
			},
			Forbidden: []models.Category{
				models.CategoryConfiguration,
				models.CategoryServiceLayer,
				models.CategoryBusinessLogic,
				models.CategoryAnalytics,
			},
			AllowEmpty: true,
		},
		models.ScenarioMixed: {
			Allowed: []models.Category{
				models.CategoryInfrastructure,
				models.CategoryConfiguration,
				models.CategoryServiceLayer,
				models.CategoryMonitoring,
				models.CategoryDocumentation,
			},
			Forbidden: []models.Category{
				models.CategoryBusinessLogic,
				models.CategoryAnalytics,
			},
			Required: []models.Category{
				models.CategoryConfiguration,
				models.CategoryServiceLayer,
			},
		},
		models.ScenarioLogicHeavy: {
			Allowed:  models.AllCategories(),
			Required: []models.Category{
				models.CategoryBusinessLogic,
				models.CategoryAnalytics,
			},
		},
	}
}
