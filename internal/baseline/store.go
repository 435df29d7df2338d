// Package baseline persists accepted findings so re-runs only surface
// new ones. Findings are keyed by their diagnostic fingerprint, which
// is location-independent, so moving a profile file does not resurrect
// an accepted finding.
package baseline

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"maplint/internal/diag"
	"maplint/internal/logging"
)

// Store is a SQLite-backed baseline.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	path   string
}

// Entry is one accepted finding.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Rule        string    `json:"rule"`
	Unit        string    `json:"unit"`
	Member      string    `json:"member"`
	Message     string    `json:"message"`
	RunID       string    `json:"runId"`
	AcceptedAt  time.Time `json:"acceptedAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS baseline (
	fingerprint TEXT PRIMARY KEY,
	rule        TEXT NOT NULL,
	unit        TEXT NOT NULL,
	member      TEXT NOT NULL,
	message     TEXT NOT NULL,
	run_id      TEXT NOT NULL,
	accepted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_baseline_rule ON baseline(rule);
`

// Open opens or creates the baseline database at path.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create baseline directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open baseline database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize baseline schema: %w", err)
	}

	logger.Debug("baseline opened", map[string]interface{}{"path": path})
	return &Store{conn: conn, logger: logger, path: path}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Accept records the diagnostics as accepted under the given run ID.
// Re-accepting an existing fingerprint refreshes its metadata.
func (s *Store) Accept(runID string, diagnostics []diag.Diagnostic) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO baseline (fingerprint, rule, unit, member, message, run_id, accepted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			message = excluded.message,
			run_id = excluded.run_id,
			accepted_at = excluded.accepted_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i := range diagnostics {
		d := &diagnostics[i]
		if _, err := stmt.Exec(d.Fingerprint(), string(d.Rule), d.Unit, d.Member, d.Message, runID, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("baseline updated", map[string]interface{}{
		"accepted": len(diagnostics),
		"run":      runID,
	})
	return nil
}

// Contains reports whether a fingerprint is in the baseline.
func (s *Store) Contains(fingerprint string) (bool, error) {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM baseline WHERE fingerprint = ?`, fingerprint).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Filter removes baselined findings from the slice, preserving order.
func (s *Store) Filter(diagnostics []diag.Diagnostic) ([]diag.Diagnostic, error) {
	if len(diagnostics) == 0 {
		return diagnostics, nil
	}
	kept := make([]diag.Diagnostic, 0, len(diagnostics))
	for i := range diagnostics {
		known, err := s.Contains(diagnostics[i].Fingerprint())
		if err != nil {
			return nil, err
		}
		if !known {
			kept = append(kept, diagnostics[i])
		}
	}
	return kept, nil
}

// List returns every baseline entry, newest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.conn.Query(`
		SELECT fingerprint, rule, unit, member, message, run_id, accepted_at
		FROM baseline ORDER BY accepted_at DESC, fingerprint`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var acceptedAt int64
		if err := rows.Scan(&e.Fingerprint, &e.Rule, &e.Unit, &e.Member, &e.Message, &e.RunID, &acceptedAt); err != nil {
			return nil, err
		}
		e.AcceptedAt = time.Unix(acceptedAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes a fingerprint from the baseline.
func (s *Store) Remove(fingerprint string) error {
	_, err := s.conn.Exec(`DELETE FROM baseline WHERE fingerprint = ?`, fingerprint)
	return err
}
