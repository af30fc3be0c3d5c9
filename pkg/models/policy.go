package models

import "fmt"

// ResourcePolicy declares how a named database resource is meant to be used.
// Policies are immutable once loaded into the registry.
type ResourcePolicy struct {
	// Name is the resource identifier artifacts are matched against.
	Name string `json:"name" yaml:"name"`
	// Scenario is the declared usage classification.
	Scenario Scenario `json:"scenario" yaml:"scenario"`
	// Criticality is the business impact tier of the resource.
	Criticality Criticality `json:"criticality" yaml:"criticality"`
	// Owner is the contact for the team responsible for the resource.
	Owner string `json:"owner" yaml:"owner"`
	// Description explains what the resource holds.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks that the policy names a resource and carries known
// scenario and criticality values.
func (p ResourcePolicy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("policy has no resource name")
	}
	if !p.Scenario.Valid() {
		return fmt.Errorf("policy %s: unknown scenario %q", p.Name, p.Scenario)
	}
	if !p.Criticality.Valid() {
		return fmt.Errorf("policy %s: unknown criticality %q", p.Name, p.Criticality)
	}
	return nil
}

// ScenarioRule defines which evidence categories a scenario tolerates,
// rejects and demands.
type ScenarioRule struct {
	// Allowed lists the categories the scenario tolerates.
	Allowed []Category `json:"allowed" yaml:"allowed"`
	// Forbidden lists the categories whose presence is a violation.
	Forbidden []Category `json:"forbidden" yaml:"forbidden"`
	// Required lists the categories that must have evidence.
	Required []Category `json:"required" yaml:"required"`
	// AllowEmpty permits a resource with no evidence in any allowed
	// category to still pass the separation check.
	AllowEmpty bool `json:"allow_empty,omitempty" yaml:"allow_empty,omitempty"`
}

// Validate checks the rule's internal consistency: categories must be known,
// a category cannot be both allowed and forbidden, and every required
// category must also be allowed.
func (r ScenarioRule) Validate() error {
	allowed := make(map[Category]bool, len(r.Allowed))
	for _, c := range r.Allowed {
		if !c.Valid() {
			return fmt.Errorf("unknown allowed category %q", c)
		}
		allowed[c] = true
	}
	for _, c := range r.Forbidden {
		if !c.Valid() {
			return fmt.Errorf("unknown forbidden category %q", c)
		}
		if allowed[c] {
			return fmt.Errorf("category %q is both allowed and forbidden", c)
		}
	}
	for _, c := range r.Required {
		if !c.Valid() {
			return fmt.Errorf("unknown required category %q", c)
		}
		if !allowed[c] {
			return fmt.Errorf("required category %q is not allowed", c)
		}
	}
	return nil
}

// Forbids returns true if the rule forbids the category.
func (r ScenarioRule) Forbids(c Category) bool {
	for _, f := range r.Forbidden {
		if f == c {
			return true
		}
	}
	return false
}

// Allows returns true if the rule allows the category.
func (r ScenarioRule) Allows(c Category) bool {
	for _, a := range r.Allowed {
		if a == c {
			return true
		}
	}
	return false
}
