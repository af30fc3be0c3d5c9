package models

import "time"

// Summary aggregates the outcomes of a validation run.
type Summary struct {
	// Total is the number of check results in the run.
	Total int `json:"total"`
	// Passed counts results with status PASS.
	Passed int `json:"passed"`
	// Failed counts results with status FAIL.
	Failed int `json:"failed"`
	// Warnings counts results with status WARNING.
	Warnings int `json:"warnings"`
	// CriticalFailures lists the results that gate the run.
	CriticalFailures []CheckResult `json:"critical_failures"`
	// ScenarioCompliance is the PASS fraction per scenario, from 0 to 1.
	ScenarioCompliance map[Scenario]float64 `json:"scenario_compliance"`
	// OverallCompliance is the PASS fraction across all results, from 0 to 1.
	OverallCompliance float64 `json:"overall_compliance"`
	// Success is true when the run produced no critical failures. A run
	// with no results is vacuously successful.
	Success bool `json:"success"`
}

// Report is the complete outcome of one validation run.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`
	// CorpusRoot is the root directory the evidence was scanned from.
	CorpusRoot string `json:"corpus_root"`
	// Results holds every check result, ordered by resource name and
	// check sequence.
	Results []CheckResult `json:"results"`
	// Summary aggregates the results.
	Summary Summary `json:"summary"`
}

// ResultsFor returns the results belonging to the named resource.
func (r *Report) ResultsFor(resource string) []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if res.Resource == resource {
			out = append(out, res)
		}
	}
	return out
}
