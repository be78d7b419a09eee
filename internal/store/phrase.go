package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Phrase is a named, ordered list of gesture labels.
type Phrase struct {
	ID        string
	Name      string
	Labels    []string
	CreatedAt time.Time
}

// PhraseRepository provides CRUD operations for phrases.
type PhraseRepository struct {
	db *sql.DB
}

// Phrases returns the phrase repository for this store.
func (s *Store) Phrases() *PhraseRepository {
	return &PhraseRepository{db: s.db}
}

// Create inserts a new phrase. Names are unique.
func (r *PhraseRepository) Create(p *Phrase) error {
	labels, err := json.Marshal(p.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	p.CreatedAt = time.Now()

	_, err = r.db.Exec(
		`INSERT INTO phrases (id, name, labels, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, string(labels), p.CreatedAt,
	)
	return err
}

// Upsert inserts p, or replaces the labels of the phrase with the same name.
// On return p carries the stored ID.
func (r *PhraseRepository) Upsert(p *Phrase) error {
	existing, err := r.GetByName(p.Name)
	if errors.Is(err, ErrNotFound) {
		return r.Create(p)
	}
	if err != nil {
		return err
	}

	labels, err := json.Marshal(p.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	if _, err := r.db.Exec(`UPDATE phrases SET labels = ? WHERE id = ?`, string(labels), existing.ID); err != nil {
		return err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return nil
}

// GetByID retrieves a phrase by its ID.
func (r *PhraseRepository) GetByID(id string) (*Phrase, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, labels, created_at FROM phrases WHERE id = ?`, id,
	))
}

// GetByName retrieves a phrase by its name.
func (r *PhraseRepository) GetByName(name string) (*Phrase, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, labels, created_at FROM phrases WHERE name = ?`, name,
	))
}

// List returns every phrase ordered by name.
func (r *PhraseRepository) List() ([]*Phrase, error) {
	rows, err := r.db.Query(`SELECT id, name, labels, created_at FROM phrases ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []*Phrase
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// Delete removes a phrase. Runs keep their history with the phrase detached.
func (r *PhraseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM phrases WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PhraseRepository) scanOne(row *sql.Row) (*Phrase, error) {
	p, err := r.scan(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return p, nil
}

func (r *PhraseRepository) scan(row rowScanner) (*Phrase, error) {
	p := &Phrase{}
	var labels string
	if err := row.Scan(&p.ID, &p.Name, &labels, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(labels), &p.Labels); err != nil {
		return nil, fmt.Errorf("decode labels of phrase %s: %w", p.ID, err)
	}
	return p, nil
}
