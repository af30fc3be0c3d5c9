package scan

import "github.com/ShayCichocki/scenguard/pkg/models"

// DefaultLocations maps the expected corpus layout to evidence categories.
// Patterns are glob expressions relative to the corpus root, with ** spanning
// directories.
func DefaultLocations() []Location {
	return []Location{
		{
			Category: models.CategoryInfrastructure,
			Patterns: []string{
				"terraform/**/*.tf",
				"terraform_*.tf",
				"helm-charts/**/*.yaml",
				"helm_values_*.yaml",
				"docker-compose*.yml",
			},
		},
		{
			Category: models.CategoryConfiguration,
			Patterns: []string{"src/config/**/*"},
		},
		{
			Category: models.CategoryServiceLayer,
			Patterns: []string{"src/services/**/*"},
		},
		{
			Category: models.CategoryBusinessLogic,
			Patterns: []string{"src/business/**/*"},
		},
		{
			Category: models.CategoryAnalytics,
			Patterns: []string{"src/analytics/**/*"},
		},
		{
			Category: models.CategoryMonitoring,
			Patterns: []string{
				"monitoring/database-monitors/**/*.yaml",
				"datadog_monitor_*.yaml",
			},
		},
		{
			Category: models.CategoryDocumentation,
			Patterns: []string{
				"docs/**/*.md",
				"README.md",
			},
		},
	}
}
