// Package archive persists run summaries to a local SQLite database so
// repeated reductions of the same target can be compared over time. Only
// the summary numbers are stored; the cleaned series themselves never
// touch the database.
package archive

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one archived cleaning run.
type Run struct {
	RunID       string  `json:"run_id"`
	SourcePath  string  `json:"source_path"`
	RowsIn      int     `json:"rows_in"`
	RowsOut     int     `json:"rows_out"`
	NormFactor  float64 `json:"norm_factor"`
	FluxRMS     float64 `json:"flux_rms"`
	TimeStartJD float64 `json:"time_start_jd"`
	TimeEndJD   float64 `json:"time_end_jd"`
	Sigma       float64 `json:"sigma"`
	Cut         int     `json:"cut"`
	CreatedAt   int64   `json:"created_at"`
}

// Store provides persistence for run summaries.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive database at path and brings its
// schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}
	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database connection without running
// migrations. Intended for the migrate subcommand, which manages the
// schema itself.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for the migrate subcommand.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Insert persists a run summary. If RunID is empty, a UUID is generated;
// if CreatedAt is zero, the current time is used.
func (s *Store) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO runs (
				run_id, source_path, rows_in, rows_out,
				norm_factor, flux_rms, time_start_jd, time_end_jd,
				sigma, cut, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.SourcePath, run.RowsIn, run.RowsOut,
			run.NormFactor, run.FluxRMS, run.TimeStartJD, run.TimeEndJD,
			run.Sigma, run.Cut, run.CreatedAt,
		)
		return err
	})
}

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(limit int) ([]*Run, error) {
	query := `
		SELECT run_id, source_path, rows_in, rows_out,
		       norm_factor, flux_rms, time_start_jd, time_end_jd,
		       sigma, cut, created_at
		FROM runs
		ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns a single run by ID.
func (s *Store) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, source_path, rows_in, rows_out,
		       norm_factor, flux_rms, time_start_jd, time_end_jd,
		       sigma, cut, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	var r Run
	err := row.Scan(
		&r.RunID, &r.SourcePath, &r.RowsIn, &r.RowsOut,
		&r.NormFactor, &r.FluxRMS, &r.TimeStartJD, &r.TimeEndJD,
		&r.Sigma, &r.Cut, &r.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &r, nil
}

// Delete removes a run by ID.
func (s *Store) Delete(runID string) error {
	return retryOnBusy(func() error {
		result, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("run %s not found", runID)
		}
		return nil
	})
}

// scanRun scans a run row from a sql.Rows cursor.
func scanRun(rows *sql.Rows) (*Run, error) {
	var r Run
	err := rows.Scan(
		&r.RunID, &r.SourcePath, &r.RowsIn, &r.RowsOut,
		&r.NormFactor, &r.FluxRMS, &r.TimeStartJD, &r.TimeEndJD,
		&r.Sigma, &r.Cut, &r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	return &r, nil
}

// isSQLiteBusy reports whether an error is a transient SQLITE_BUSY
// condition worth retrying.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// retryOnBusy runs fn, retrying with backoff while the database reports
// a busy condition. Non-busy errors return immediately.
func retryOnBusy(fn func() error) error {
	const maxRetries = 5
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}
