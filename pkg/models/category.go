package models

// Category identifies the kind of evidence an artifact reference provides.
type Category string

const (
	// CategoryInfrastructure covers provisioning artifacts such as terraform
	// definitions and helm values.
	CategoryInfrastructure Category = "infrastructure"
	// CategoryConfiguration covers application configuration sources.
	CategoryConfiguration Category = "configuration"
	// CategoryServiceLayer covers data access and service wrappers.
	CategoryServiceLayer Category = "service_layer"
	// CategoryBusinessLogic covers domain rules built on the resource.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryAnalytics covers reporting and analysis code.
	CategoryAnalytics Category = "analytics"
	// CategoryMonitoring covers alerting and observability definitions.
	CategoryMonitoring Category = "monitoring"
	// CategoryDocumentation covers ownership and usage documentation.
	CategoryDocumentation Category = "documentation"
)

// Valid returns true if the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategoryConfiguration, CategoryServiceLayer,
		CategoryBusinessLogic, CategoryAnalytics, CategoryMonitoring, CategoryDocumentation:
		return true
	default:
		return false
	}
}

// AllCategories returns the known categories in their canonical order. The
// order is stable so that reports and rendered output stay deterministic.
func AllCategories() []Category {
	return []Category{
		CategoryInfrastructure,
		CategoryConfiguration,
		CategoryServiceLayer,
		CategoryBusinessLogic,
		CategoryAnalytics,
		CategoryMonitoring,
		CategoryDocumentation,
	}
}
