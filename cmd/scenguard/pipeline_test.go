package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/internal/policy"
	"github.com/ShayCichocki/scenguard/internal/report"
	"github.com/ShayCichocki/scenguard/internal/runner"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

func TestOwnersFromPolicies(t *testing.T) {
	policies := []models.ResourcePolicy{
		{Name: "pagila", Owner: "engineering-team@company.com"},
		{Name: "orphan"},
		{Name: "lego", Owner: "analytics-team@company.com"},
	}

	owners := ownersFromPolicies(policies)

	if len(owners) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(owners))
	}
	if owners["pagila"] != "engineering-team@company.com" {
		t.Errorf("unexpected owner for pagila: %q", owners["pagila"])
	}
	if _, ok := owners["orphan"]; ok {
		t.Error("expected resources without an owner to be omitted")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{"debug is honored", "debug", zerolog.DebugLevel},
		{"warn is honored", "warn", zerolog.WarnLevel},
		{"unknown falls back to info", "nonsense", zerolog.InfoLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Log.Level = tt.level

			logger := newLogger(cfg)
			if logger.GetLevel() != tt.expected {
				t.Errorf("newLogger level = %s, want %s", logger.GetLevel(), tt.expected)
			}
		})
	}
}

func TestBuildRegistry_BuiltinInventory(t *testing.T) {
	cfg := config.Default()

	registry, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}
	if len(registry.Names()) == 0 {
		t.Error("expected the built-in inventory to have policies")
	}
}

func TestBuildRegistry_PolicyFile(t *testing.T) {
	policyFile := filepath.Join(t.TempDir(), "policies.yaml")
	content := `policies:
  - name: orders
    scenario: LOGIC_HEAVY
    criticality: CRITICAL
    owner: commerce-team@company.com
`
	if err := os.WriteFile(policyFile, []byte(content), 0644); err != nil {
		t.Fatalf("write policy file: %v", err)
	}

	cfg := config.Default()
	cfg.Policy.File = policyFile

	registry, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}
	if _, err := registry.Lookup("orders"); err != nil {
		t.Errorf("expected orders policy to be merged: %v", err)
	}
}

func TestBuildRegistry_MissingPolicyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Policy.File = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := buildRegistry(cfg); err == nil {
		t.Error("expected an error for a missing policy file")
	}
}

func TestBuildRunner_RejectsUnknownMatcher(t *testing.T) {
	cfg := config.Default()
	cfg.Scan.Matcher = "fuzzy"

	if _, err := buildRunner(cfg, policy.NewRegistry(), zerolog.Nop()); err == nil {
		t.Error("expected an unknown matcher to be rejected")
	}
}

func TestBuildRunner_Defaults(t *testing.T) {
	cfg := config.Default()

	r, err := buildRunner(cfg, policy.NewRegistry(), zerolog.Nop())
	if err != nil {
		t.Fatalf("buildRunner: %v", err)
	}
	if r == nil {
		t.Fatal("buildRunner returned nil")
	}
}

func TestRunValidation_EndToEnd(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(docs, "databases.md"), []byte("pagila is documented here"), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	cfg := config.Default()
	cfg.Corpus.Root = root

	registry, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}

	rep, err := runValidation(context.Background(), cfg, registry, zerolog.Nop(), []string{"pagila"}, nil)
	if err != nil {
		t.Fatalf("runValidation: %v", err)
	}

	if rep.CorpusRoot != root {
		t.Errorf("expected corpus root %q, got %q", root, rep.CorpusRoot)
	}
	if rep.Summary.Total != 5 {
		t.Fatalf("expected 5 check results, got %d", rep.Summary.Total)
	}
	// Documentation evidence exists but infrastructure does not, so the
	// run has exactly one critical failure.
	if rep.Summary.Success {
		t.Error("expected the run to fail on missing infrastructure")
	}
	if len(rep.Summary.CriticalFailures) != 1 {
		t.Fatalf("expected 1 critical failure, got %d", len(rep.Summary.CriticalFailures))
	}
	if rep.Summary.CriticalFailures[0].Check != models.CheckInfrastructure {
		t.Errorf("expected the critical failure to be infrastructure_presence, got %s", rep.Summary.CriticalFailures[0].Check)
	}
}

func TestRunValidation_ForwardsEvents(t *testing.T) {
	root := t.TempDir()

	cfg := config.Default()
	cfg.Corpus.Root = root

	registry, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}

	var events int
	_, err = runValidation(context.Background(), cfg, registry, zerolog.Nop(), []string{"pagila"}, func(runner.Event) { events++ })
	if err != nil {
		t.Fatalf("runValidation: %v", err)
	}
	if events == 0 {
		t.Error("expected progress events to be forwarded")
	}
}

func TestRenderReport_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")

	cfg := config.Default()
	cfg.Report.Out = out

	rep := report.Aggregate(".", nil)
	if err := renderReport(cfg, rep); err != nil {
		t.Fatalf("renderReport: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report file: %v", err)
	}
	if !strings.Contains(string(data), rep.RunID) {
		t.Error("expected the report file to contain the run id")
	}
}
