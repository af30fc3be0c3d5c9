package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/scenguard/internal/report"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "reports", "scenguard.db"))
	require.NoError(t, err, "open should create parent directories")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(), "migrations should apply cleanly")
	return db
}

func sampleReport(t *testing.T) models.Report {
	t.Helper()

	return report.Aggregate("/corpus", []models.CheckResult{
		{
			Resource: "pagila",
			Scenario: models.ScenarioMixed,
			Check:    models.CheckSeparation,
			Status:   models.StatusPass,
			Severity: models.SeverityInfo,
			Message:  "usage respects scenario separation",
		},
		{
			Resource:       "employees",
			Scenario:       models.ScenarioLogicHeavy,
			Check:          models.CheckInfrastructure,
			Status:         models.StatusFail,
			Severity:       models.SeverityCritical,
			Message:        "no infrastructure definition references this resource",
			Details:        []string{"skipped terraform_prod.tf: permission denied"},
			FileReferences: []string{},
		},
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Migrate(), "re-running migrations should be a no-op")
}

func TestSaveAndGetReport(t *testing.T) {
	db := openTestDB(t)
	saved := sampleReport(t)

	require.NoError(t, db.SaveReport(saved))

	loaded, err := db.GetReport(saved.RunID)
	require.NoError(t, err)

	assert.Equal(t, saved.RunID, loaded.RunID)
	assert.Equal(t, saved.CorpusRoot, loaded.CorpusRoot)
	assert.True(t, saved.GeneratedAt.Truncate(time.Second).Equal(loaded.GeneratedAt),
		"timestamps should survive the round trip at second precision")

	require.Len(t, loaded.Results, len(saved.Results))
	for i := range saved.Results {
		assert.Equal(t, saved.Results[i], loaded.Results[i], "result %d should round-trip", i)
	}

	assert.Equal(t, saved.Summary.Total, loaded.Summary.Total)
	assert.Equal(t, saved.Summary.Success, loaded.Summary.Success)
	assert.Equal(t, saved.Summary.OverallCompliance, loaded.Summary.OverallCompliance)
	assert.Equal(t, saved.Summary.ScenarioCompliance, loaded.Summary.ScenarioCompliance)
}

func TestGetReport_Missing(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetReport("11111111-2222-3333-4444-555555555555")
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestLatestReport(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LatestReport()
	assert.ErrorIs(t, err, ErrNoReports, "an empty store has no latest report")

	older := sampleReport(t)
	older.GeneratedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveReport(older))

	newer := sampleReport(t)
	newer.GeneratedAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveReport(newer))

	latest, err := db.LatestReport()
	require.NoError(t, err)
	assert.Equal(t, newer.RunID, latest.RunID, "the most recent run should win")
}

func TestSaveReport_DuplicateRunID(t *testing.T) {
	db := openTestDB(t)
	r := sampleReport(t)

	require.NoError(t, db.SaveReport(r))
	assert.Error(t, db.SaveReport(r), "run IDs are unique per run")
}

func TestSaveReport_EmptyRun(t *testing.T) {
	db := openTestDB(t)
	r := report.Aggregate("/corpus", nil)

	require.NoError(t, db.SaveReport(r))

	loaded, err := db.GetReport(r.RunID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Results)
	assert.True(t, loaded.Summary.Success, "an empty run is vacuously compliant")
}
