// Package store persists the final report of a validation run to SQLite.
// The on-disk form mirrors the serialized report: one row per run, one row
// per check result, nothing else.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/scenguard/internal/report"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

// ErrNoReports is returned when the store holds no report.
var ErrNoReports = errors.New("no reports stored")

// DB wraps an SQLite database holding persisted reports.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens an SQLite database at the given path.
// It creates the parent directories if they don't exist.
// WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Reports},
		{2, migrationV2Results},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Migration SQL statements
const migrationV1Reports = `
CREATE TABLE IF NOT EXISTS reports (
	run_id TEXT PRIMARY KEY,
	generated_at DATETIME NOT NULL,
	corpus_root TEXT NOT NULL,
	total INTEGER NOT NULL DEFAULT 0,
	passed INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	warnings INTEGER NOT NULL DEFAULT 0,
	overall_compliance REAL NOT NULL DEFAULT 0.0,
	success INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
`

const migrationV2Results = `
CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES reports(run_id) ON DELETE CASCADE,
	resource TEXT NOT NULL,
	scenario TEXT NOT NULL,
	check_name TEXT NOT NULL,
	status TEXT NOT NULL,
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	details TEXT NOT NULL DEFAULT '[]',
	file_references TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_resource ON results(resource);
`

// SaveReport persists a report and all of its results in one transaction.
func (db *DB) SaveReport(r models.Report) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO reports (run_id, generated_at, corpus_root, total, passed, failed, warnings, overall_compliance, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, formatTime(r.GeneratedAt), r.CorpusRoot,
		r.Summary.Total, r.Summary.Passed, r.Summary.Failed, r.Summary.Warnings,
		r.Summary.OverallCompliance, boolToInt(r.Summary.Success))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert report %s: %w", r.RunID, err)
	}

	for _, result := range r.Results {
		details, err := json.Marshal(result.Details)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode details: %w", err)
		}
		refs, err := json.Marshal(result.FileReferences)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode file references: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO results (run_id, resource, scenario, check_name, status, severity, message, details, file_references)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.RunID, result.Resource, string(result.Scenario), string(result.Check),
			string(result.Status), string(result.Severity), result.Message, string(details), string(refs))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert result for %s/%s: %w", result.Resource, result.Check, err)
		}
	}

	return tx.Commit()
}

// GetReport loads a persisted report by run ID. The summary is rebuilt
// from the stored results, which is deterministic.
func (db *DB) GetReport(runID string) (models.Report, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(`
		SELECT run_id, generated_at, corpus_root FROM reports WHERE run_id = ?
	`, runID)
	return db.loadReport(row)
}

// LatestReport loads the most recently generated report.
func (db *DB) LatestReport() (models.Report, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(`
		SELECT run_id, generated_at, corpus_root FROM reports
		ORDER BY generated_at DESC LIMIT 1
	`)
	return db.loadReport(row)
}

func (db *DB) loadReport(row *sql.Row) (models.Report, error) {
	var (
		runID       string
		generatedAt string
		corpusRoot  string
	)
	if err := row.Scan(&runID, &generatedAt, &corpusRoot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Report{}, ErrNoReports
		}
		return models.Report{}, fmt.Errorf("load report: %w", err)
	}

	results, err := db.loadResults(runID)
	if err != nil {
		return models.Report{}, err
	}

	r := report.Aggregate(corpusRoot, results)
	r.RunID = runID
	if ts, err := parseTime(generatedAt); err == nil {
		r.GeneratedAt = ts
	}
	return r, nil
}

func (db *DB) loadResults(runID string) ([]models.CheckResult, error) {
	rows, err := db.conn.Query(`
		SELECT resource, scenario, check_name, status, severity, message, details, file_references
		FROM results WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load results for %s: %w", runID, err)
	}
	defer rows.Close()

	var results []models.CheckResult
	for rows.Next() {
		var (
			r       models.CheckResult
			details string
			refs    string
		)
		if err := rows.Scan(&r.Resource, &r.Scenario, &r.Check, &r.Status, &r.Severity, &r.Message, &details, &refs); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &r.Details); err != nil {
			return nil, fmt.Errorf("decode details: %w", err)
		}
		if err := json.Unmarshal([]byte(refs), &r.FileReferences); err != nil {
			return nil, fmt.Errorf("decode file references: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
