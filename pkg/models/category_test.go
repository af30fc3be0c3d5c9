package models

import "testing"

func TestCategory_Valid(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"infrastructure is valid", CategoryInfrastructure, true},
		{"configuration is valid", CategoryConfiguration, true},
		{"service_layer is valid", CategoryServiceLayer, true},
		{"business_logic is valid", CategoryBusinessLogic, true},
		{"analytics is valid", CategoryAnalytics, true},
		{"monitoring is valid", CategoryMonitoring, true},
		{"documentation is valid", CategoryDocumentation, true},
		{"empty string is invalid", Category(""), false},
		{"hyphenated form is invalid", Category("service-layer"), false},
		{"unknown category is invalid", Category("security"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Valid(); got != tt.want {
				t.Errorf("Category(%q).Valid() = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestAllCategories(t *testing.T) {
	categories := AllCategories()

	if len(categories) != 7 {
		t.Fatalf("AllCategories() returned %d categories, want 7", len(categories))
	}

	seen := make(map[Category]bool)
	for _, c := range categories {
		if !c.Valid() {
			t.Errorf("AllCategories() contains invalid category %q", c)
		}
		if seen[c] {
			t.Errorf("AllCategories() contains duplicate category %q", c)
		}
		seen[c] = true
	}

	if categories[0] != CategoryInfrastructure {
		t.Errorf("AllCategories()[0] = %q, want %q", categories[0], CategoryInfrastructure)
	}
}
