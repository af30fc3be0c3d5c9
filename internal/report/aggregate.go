// Package report assembles the raw results of a validation run into the
// final compliance report and renders it for humans and machines.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

// Aggregate folds raw check results into a Report. Results are sorted by
// resource name and then by check sequence, so two runs over the same
// corpus produce identical output regardless of worker scheduling. Nil
// detail and reference slices are replaced with empty ones so the JSON
// encoding is stable.
func Aggregate(corpusRoot string, results []models.CheckResult) models.Report {
	sorted := make([]models.CheckResult, len(results))
	copy(sorted, results)
	for i := range sorted {
		if sorted[i].Details == nil {
			sorted[i].Details = []string{}
		}
		if sorted[i].FileReferences == nil {
			sorted[i].FileReferences = []string{}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Resource != sorted[j].Resource {
			return sorted[i].Resource < sorted[j].Resource
		}
		if ri, rj := sorted[i].Check.Rank(), sorted[j].Check.Rank(); ri != rj {
			return ri < rj
		}
		return sorted[i].Check < sorted[j].Check
	})

	return models.Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		CorpusRoot:  corpusRoot,
		Results:     sorted,
		Summary:     summarize(sorted),
	}
}

func summarize(results []models.CheckResult) models.Summary {
	s := models.Summary{
		Total:              len(results),
		CriticalFailures:   []models.CheckResult{},
		ScenarioCompliance: map[models.Scenario]float64{},
	}

	passed := 0
	passesByScenario := map[models.Scenario]int{}
	totalByScenario := map[models.Scenario]int{}
	for _, r := range results {
		switch r.Status {
		case models.StatusPass:
			s.Passed++
			passed++
		case models.StatusFail:
			s.Failed++
		case models.StatusWarning:
			s.Warnings++
		}
		if r.IsCriticalFailure() {
			s.CriticalFailures = append(s.CriticalFailures, r)
		}
		// Synthetic lookup failures carry no scenario and only count
		// toward the overall rate.
		if r.Scenario.Valid() {
			totalByScenario[r.Scenario]++
			if r.Status == models.StatusPass {
				passesByScenario[r.Scenario]++
			}
		}
	}

	for _, scenario := range models.AllScenarios() {
		rate := 0.0
		if total := totalByScenario[scenario]; total > 0 {
			rate = float64(passesByScenario[scenario]) / float64(total)
		}
		s.ScenarioCompliance[scenario] = rate
	}
	if len(results) > 0 {
		s.OverallCompliance = float64(passed) / float64(len(results))
	}
	s.Success = len(s.CriticalFailures) == 0
	return s
}
