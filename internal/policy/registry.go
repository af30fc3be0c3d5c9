// Package policy holds the resource inventory and the per-scenario rules
// that validation runs evaluate against. The registry is assembled once from
// built-in defaults plus an optional policy file and is immutable afterwards.
package policy

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

// ErrNotFound is returned when a resource has no registered policy.
var ErrNotFound = errors.New("no policy registered")

// Registry resolves resource names to policies and scenarios to rules.
type Registry struct {
	policies map[string]models.ResourcePolicy
	rules    map[models.Scenario]models.ScenarioRule
}

// policyFile is the on-disk policy definition format.
type policyFile struct {
	Policies []models.ResourcePolicy                 `yaml:"policies"`
	Rules    map[models.Scenario]models.ScenarioRule `yaml:"rules"`
}

// NewRegistry builds a registry from the built-in inventory and rules.
func NewRegistry() *Registry {
	r := &Registry{
		policies: make(map[string]models.ResourcePolicy),
		rules:    DefaultRules(),
	}
	for _, p := range DefaultPolicies() {
		r.policies[p.Name] = p
	}
	return r
}

// NewRegistryFromFile builds a registry from the defaults merged with the
// given policy file. File entries override defaults with the same resource
// name; rule overrides replace the default rule for that scenario. A
// malformed file or an inconsistent rule aborts loading.
func NewRegistryFromFile(path string) (*Registry, error) {
	r := NewRegistry()
	if err := r.loadFile(path); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	for _, p := range file.Policies {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("policy file %s: %w", path, err)
		}
		r.policies[p.Name] = p
	}

	for scenario, rule := range file.Rules {
		if !scenario.Valid() {
			return fmt.Errorf("policy file %s: unknown scenario %q in rules", path, scenario)
		}
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("policy file %s: rule for %s: %w", path, scenario, err)
		}
		r.rules[scenario] = rule
	}

	return nil
}

// Lookup returns the policy for the named resource.
func (r *Registry) Lookup(name string) (models.ResourcePolicy, error) {
	p, ok := r.policies[name]
	if !ok {
		return models.ResourcePolicy{}, fmt.Errorf("resource %q: %w", name, ErrNotFound)
	}
	return p, nil
}

// RuleFor returns the rule for the scenario.
func (r *Registry) RuleFor(scenario models.Scenario) (models.ScenarioRule, error) {
	rule, ok := r.rules[scenario]
	if !ok {
		return models.ScenarioRule{}, fmt.Errorf("no rule for scenario %q", scenario)
	}
	return rule, nil
}

// Rules returns a copy of the scenario rule table.
func (r *Registry) Rules() map[models.Scenario]models.ScenarioRule {
	out := make(map[models.Scenario]models.ScenarioRule, len(r.rules))
	for s, rule := range r.rules {
		out[s] = rule
	}
	return out
}

// All returns every registered policy sorted by resource name.
func (r *Registry) All() []models.ResourcePolicy {
	out := make([]models.ResourcePolicy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every registered resource name sorted alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.policies))
	for name := range r.policies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
