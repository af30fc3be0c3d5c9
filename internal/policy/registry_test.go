package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

func TestNewRegistry_Defaults(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name        string
		scenario    models.Scenario
		criticality models.Criticality
	}{
		{"periodic_table", models.ScenarioConfigOnly, models.CriticalityLow},
		{"pagila", models.ScenarioMixed, models.CriticalityMedium},
		{"employees", models.ScenarioLogicHeavy, models.CriticalityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%s) error: %v", tt.name, err)
			}
			if p.Scenario != tt.scenario {
				t.Errorf("Lookup(%s).Scenario = %q, want %q", tt.name, p.Scenario, tt.scenario)
			}
			if p.Criticality != tt.criticality {
				t.Errorf("Lookup(%s).Criticality = %q, want %q", tt.name, p.Criticality, tt.criticality)
			}
			if p.Owner == "" {
				t.Errorf("Lookup(%s).Owner is empty", tt.name)
			}
		})
	}

	if got := len(r.All()); got != 9 {
		t.Errorf("len(All()) = %d, want 9", got)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("mystery_db")
	if err == nil {
		t.Fatal("Lookup(mystery_db) = nil error, want ErrNotFound")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(mystery_db) error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_DefaultRulesAreConsistent(t *testing.T) {
	r := NewRegistry()

	for _, scenario := range models.AllScenarios() {
		rule, err := r.RuleFor(scenario)
		if err != nil {
			t.Fatalf("RuleFor(%s) error: %v", scenario, err)
		}
		if err := rule.Validate(); err != nil {
			t.Errorf("default rule for %s is inconsistent: %v", scenario, err)
		}
	}
}

func TestRegistry_RuleSemantics(t *testing.T) {
	r := NewRegistry()

	configOnly, _ := r.RuleFor(models.ScenarioConfigOnly)
	if !configOnly.Forbids(models.CategoryServiceLayer) {
		t.Error("CONFIG_ONLY should forbid service_layer evidence")
	}
	if !configOnly.AllowEmpty {
		t.Error("CONFIG_ONLY should tolerate resources with no evidence")
	}

	mixed, _ := r.RuleFor(models.ScenarioMixed)
	if !mixed.Forbids(models.CategoryBusinessLogic) {
		t.Error("MIXED should forbid business_logic evidence")
	}
	if len(mixed.Required) != 2 {
		t.Errorf("MIXED should require 2 categories, got %d", len(mixed.Required))
	}

	logicHeavy, _ := r.RuleFor(models.ScenarioLogicHeavy)
	if len(logicHeavy.Forbidden) != 0 {
		t.Errorf("LOGIC_HEAVY should forbid nothing, got %v", logicHeavy.Forbidden)
	}
	if !logicHeavy.Allows(models.CategoryAnalytics) {
		t.Error("LOGIC_HEAVY should allow analytics evidence")
	}
}

func TestNewRegistryFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")

	content := `policies:
  - name: warehouse
    scenario: LOGIC_HEAVY
    criticality: CRITICAL
    owner: data-platform@company.com
  - name: pagila
    scenario: CONFIG_ONLY
    criticality: LOW
    owner: development-team@company.com
rules:
  CONFIG_ONLY:
    allowed: [infrastructure]
    forbidden: [configuration, service_layer, business_logic, analytics]
    allow_empty: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistryFromFile(path)
	if err != nil {
		t.Fatalf("NewRegistryFromFile() error: %v", err)
	}

	// New resource added on top of the defaults.
	warehouse, err := r.Lookup("warehouse")
	if err != nil {
		t.Fatalf("Lookup(warehouse) error: %v", err)
	}
	if warehouse.Scenario != models.ScenarioLogicHeavy {
		t.Errorf("warehouse scenario = %q, want LOGIC_HEAVY", warehouse.Scenario)
	}

	// Existing resource overridden by name.
	pagila, err := r.Lookup("pagila")
	if err != nil {
		t.Fatalf("Lookup(pagila) error: %v", err)
	}
	if pagila.Scenario != models.ScenarioConfigOnly {
		t.Errorf("pagila scenario = %q, want CONFIG_ONLY override", pagila.Scenario)
	}

	// Rule override replaces the default for that scenario only.
	rule, err := r.RuleFor(models.ScenarioConfigOnly)
	if err != nil {
		t.Fatalf("RuleFor(CONFIG_ONLY) error: %v", err)
	}
	if rule.Allows(models.CategoryMonitoring) {
		t.Error("overridden CONFIG_ONLY rule should not allow monitoring")
	}
	mixed, err := r.RuleFor(models.ScenarioMixed)
	if err != nil || len(mixed.Required) != 2 {
		t.Errorf("MIXED rule should be untouched by the override, got %v (err %v)", mixed, err)
	}

	if got := len(r.All()); got != 10 {
		t.Errorf("len(All()) = %d, want 10", got)
	}
}

func TestNewRegistryFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "inconsistent rule",
			content: `rules:
  MIXED:
    allowed: [configuration]
    forbidden: [configuration]
`,
		},
		{
			name: "unknown scenario key",
			content: `rules:
  BATCH:
    allowed: [infrastructure]
`,
		},
		{
			name: "invalid policy entry",
			content: `policies:
  - name: warehouse
    scenario: SOMETIMES
    criticality: LOW
    owner: x@company.com
`,
		},
		{
			name:    "not yaml",
			content: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewRegistryFromFile(path); err == nil {
				t.Error("NewRegistryFromFile() = nil error, want load failure")
			}
		})
	}

	if _, err := NewRegistryFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("NewRegistryFromFile(missing) = nil error, want read failure")
	}
}
