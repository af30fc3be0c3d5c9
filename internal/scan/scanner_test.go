package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeCorpusFile(t, root, "terraform_dev_databases.tf", `
resource "aws_db_instance" "pagila" {}
resource "aws_db_instance" "chinook" {}
`)
	writeCorpusFile(t, root, "terraform_prod_critical_databases.tf", `
resource "aws_db_instance" "employees" {}
`)
	writeCorpusFile(t, root, "src/config/pagila_config.py", "PAGILA_DSN = 'postgres://db/pagila'\n")
	writeCorpusFile(t, root, "src/services/pagila_service.py", "def fetch(): return query('pagila')\n")
	writeCorpusFile(t, root, "src/business/payroll_calculator.py", "TABLE = 'employees.salaries'\n")
	writeCorpusFile(t, root, "src/analytics/turnover_report.py", "FROM_DB = 'employees'\n")
	writeCorpusFile(t, root, "docs/database-ownership.md", `
# Ownership
- employees: hr-team@company.com
- pagila: see development runbook
`)
	writeCorpusFile(t, root, "datadog_monitor_pagila.yaml", "type: metric alert\nthreshold: 5\n")
	writeCorpusFile(t, root, "monitoring/database-monitors/employees.yaml", "query: avg:postgres.employees.load\n")
	writeCorpusFile(t, root, ".git/config", "remote = pagila-mirror\n")

	return root
}

func TestNew_Defaults(t *testing.T) {
	s := New("/corpus", Config{})

	assert.Equal(t, "/corpus", s.Root())
	assert.Len(t, s.locations, len(DefaultLocations()))
	assert.IsType(t, SubstringMatcher{}, s.matcher)
	assert.Equal(t, int64(DefaultMaxFileSize), s.maxFileSize)
}

func TestScanner_Scan_BucketsByCategory(t *testing.T) {
	s := New(testCorpus(t), Config{})

	ev, err := s.Scan(context.Background(), "pagila")
	require.NoError(t, err)

	assert.Equal(t, "pagila", ev.Resource)
	assert.Equal(t, []string{"terraform_dev_databases.tf"}, ev.Files(models.CategoryInfrastructure))
	assert.Equal(t, []string{"src/config/pagila_config.py"}, ev.Files(models.CategoryConfiguration))
	assert.Equal(t, []string{"src/services/pagila_service.py"}, ev.Files(models.CategoryServiceLayer))
	assert.Empty(t, ev.Files(models.CategoryBusinessLogic))
	assert.Empty(t, ev.Files(models.CategoryAnalytics))
	assert.Equal(t, []string{"docs/database-ownership.md"}, ev.Files(models.CategoryDocumentation))

	// Every configured category is present even when empty.
	for _, c := range models.AllCategories() {
		_, ok := ev.Locations[c]
		assert.True(t, ok, "category %s missing from evidence", c)
	}
}

func TestScanner_Scan_FilenameReference(t *testing.T) {
	// The monitor file never mentions pagila in its content, only in its name.
	s := New(testCorpus(t), Config{})

	ev, err := s.Scan(context.Background(), "pagila")
	require.NoError(t, err)

	assert.Equal(t, []string{"datadog_monitor_pagila.yaml"}, ev.Files(models.CategoryMonitoring))
}

func TestScanner_Scan_OwnerDocumented(t *testing.T) {
	root := testCorpus(t)
	owners := map[string]string{
		"employees": "hr-team@company.com",
		"pagila":    "development-team@company.com",
	}
	s := New(root, Config{Owners: owners})

	employees, err := s.Scan(context.Background(), "employees")
	require.NoError(t, err)
	assert.True(t, employees.OwnerDocumented, "ownership doc names the hr-team contact")

	pagila, err := s.Scan(context.Background(), "pagila")
	require.NoError(t, err)
	assert.False(t, pagila.OwnerDocumented, "ownership doc does not name the development contact")
}

func TestScanner_Scan_HiddenDirsExcluded(t *testing.T) {
	s := New(testCorpus(t), Config{})

	ev, err := s.Scan(context.Background(), "pagila")
	require.NoError(t, err)

	for _, c := range models.AllCategories() {
		for _, f := range ev.Files(c) {
			assert.NotContains(t, f, ".git/", "hidden directories must not contribute evidence")
		}
	}
}

func TestScanner_Scan_SkipsOversizedArtifacts(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "terraform_dev_databases.tf", `resource "pagila" {}`)
	s := New(root, Config{MaxFileSize: 8})

	ev, err := s.Scan(context.Background(), "pagila")
	require.NoError(t, err)

	assert.Empty(t, ev.Files(models.CategoryInfrastructure))
	require.Len(t, ev.Skipped, 1)
	assert.Equal(t, models.CategoryInfrastructure, ev.Skipped[0].Category)
	assert.Equal(t, "terraform_dev_databases.tf", ev.Skipped[0].Path)
	assert.Contains(t, ev.Skipped[0].Reason, "exceeds limit")
}

func TestScanner_Scan_SkipsBinaryArtifacts(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "docs/pagila-diagram.md", "pagila\x00\x01\x02")
	s := New(root, Config{})

	ev, err := s.Scan(context.Background(), "pagila")
	require.NoError(t, err)

	assert.Empty(t, ev.Files(models.CategoryDocumentation))
	require.Len(t, ev.Skipped, 1)
	assert.Equal(t, "binary content", ev.Skipped[0].Reason)
}

func TestScanner_Scan_Deterministic(t *testing.T) {
	s := New(testCorpus(t), Config{})

	first, err := s.Scan(context.Background(), "employees")
	require.NoError(t, err)
	second, err := s.Scan(context.Background(), "employees")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanner_Scan_Cancelled(t *testing.T) {
	s := New(testCorpus(t), Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scan(ctx, "pagila")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanner_Scan_WordMatcher(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "terraform_archive.tf", `resource "bucket" "pagila_archive" {}`)

	substring := New(root, Config{})
	ev, err := substring.Scan(context.Background(), "pagila")
	require.NoError(t, err)
	assert.Len(t, ev.Files(models.CategoryInfrastructure), 1, "substring matcher catches embedded names")

	word := New(root, Config{Matcher: WordMatcher{}})
	ev, err = word.Scan(context.Background(), "pagila")
	require.NoError(t, err)
	assert.Empty(t, ev.Files(models.CategoryInfrastructure), "word matcher ignores embedded names")
}

func TestScanner_Scan_UnknownCorpusRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"), Config{})

	_, err := s.Scan(context.Background(), "pagila")
	require.Error(t, err)
}
