package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Run is one attempt at a phrase, from its first step to completion.
type Run struct {
	ID string
	// PhraseID is empty when the target came from configuration.
	PhraseID    string
	Labels      []string
	StartedAt   time.Time
	CompletedAt time.Time
	Accepted    []Acceptance
}

// Completed reports whether the run reached the end of its phrase.
func (r *Run) Completed() bool {
	return !r.CompletedAt.IsZero()
}

// Duration returns how long the run took, or zero while it is incomplete.
func (r *Run) Duration() time.Duration {
	if !r.Completed() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Acceptance is one gesture accepted during a run.
type Acceptance struct {
	Step       int
	Label      string
	AcceptedAt time.Time
}

// RunRepository records phrase runs and their accepted gestures.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Start inserts a new, incomplete run.
func (r *RunRepository) Start(run *Run) error {
	labels, err := json.Marshal(run.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err = r.db.Exec(
		`INSERT INTO phrase_runs (id, phrase_id, labels, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, nullString(run.PhraseID), string(labels), run.StartedAt,
	)
	return err
}

// Accept records an accepted gesture for a run.
func (r *RunRepository) Accept(runID string, a Acceptance) error {
	_, err := r.db.Exec(
		`INSERT INTO accepted_gestures (run_id, step, label, accepted_at) VALUES (?, ?, ?, ?)`,
		runID, a.Step, a.Label, a.AcceptedAt,
	)
	return err
}

// Complete marks a run as completed at the given time.
func (r *RunRepository) Complete(runID string, at time.Time) error {
	result, err := r.db.Exec(
		`UPDATE phrase_runs SET completed_at = ? WHERE id = ? AND completed_at IS NULL`,
		at, runID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// GetByID returns a run with its accepted gestures.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(
		`SELECT id, phrase_id, labels, started_at, completed_at FROM phrase_runs WHERE id = ?`, id,
	))
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}

	run.Accepted, err = r.acceptances(id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRecent returns the most recent runs, newest first. With completedOnly
// set, runs that never finished are skipped.
func (r *RunRepository) ListRecent(limit int, completedOnly bool) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, phrase_id, labels, started_at, completed_at FROM phrase_runs`
	if completedOnly {
		query += ` WHERE completed_at IS NOT NULL`
	}
	query += ` ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if run.Accepted, err = r.acceptances(run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// PruneIncomplete deletes unfinished runs started before the cutoff and
// returns how many were removed.
func (r *RunRepository) PruneIncomplete(before time.Time) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM phrase_runs WHERE completed_at IS NULL AND started_at < ?`, before,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *RunRepository) acceptances(runID string) ([]Acceptance, error) {
	rows, err := r.db.Query(
		`SELECT step, label, accepted_at FROM accepted_gestures WHERE run_id = ? ORDER BY step`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Acceptance
	for rows.Next() {
		var a Acceptance
		if err := rows.Scan(&a.Step, &a.Label, &a.AcceptedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var (
		phraseID  sql.NullString
		labels    string
		completed sql.NullTime
	)
	if err := row.Scan(&run.ID, &phraseID, &labels, &run.StartedAt, &completed); err != nil {
		return nil, err
	}
	run.PhraseID = phraseID.String
	if completed.Valid {
		run.CompletedAt = completed.Time
	}
	if err := json.Unmarshal([]byte(labels), &run.Labels); err != nil {
		return nil, fmt.Errorf("decode labels of run %s: %w", run.ID, err)
	}
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
