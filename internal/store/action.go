package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Action binds phrase completion to a plugin action.
type Action struct {
	ID string
	// PhraseID is empty for actions that fire on every phrase.
	PhraseID   string
	PluginName string
	ActionName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// ActionRepository provides CRUD operations for actions.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

const actionColumns = `id, phrase_id, plugin_name, action_name, config, enabled, created_at`

// Create inserts a new action.
func (r *ActionRepository) Create(a *Action) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO actions (`+actionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, nullString(a.PhraseID), a.PluginName, a.ActionName, configText(a.Config), a.Enabled, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	a, err := scanAction(r.db.QueryRow(`SELECT `+actionColumns+` FROM actions WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return a, nil
}

// List returns every action, newest first.
func (r *ActionRepository) List() ([]*Action, error) {
	return r.query(`SELECT ` + actionColumns + ` FROM actions ORDER BY created_at DESC`)
}

// ForPhrase returns the enabled actions that fire when phraseID completes,
// including those bound to every phrase.
func (r *ActionRepository) ForPhrase(phraseID string) ([]*Action, error) {
	return r.query(
		`SELECT `+actionColumns+` FROM actions
		 WHERE enabled = 1 AND (phrase_id IS NULL OR phrase_id = ?)
		 ORDER BY created_at`,
		phraseID,
	)
}

// Update updates an existing action.
func (r *ActionRepository) Update(a *Action) error {
	result, err := r.db.Exec(
		`UPDATE actions SET phrase_id = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		nullString(a.PhraseID), a.PluginName, a.ActionName, configText(a.Config), a.Enabled, a.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// Delete removes an action by its ID.
func (r *ActionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM actions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *ActionRepository) query(q string, args ...any) ([]*Action, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func scanAction(row rowScanner) (*Action, error) {
	a := &Action{}
	var (
		phraseID sql.NullString
		config   string
		enabled  int
	)
	if err := row.Scan(&a.ID, &phraseID, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.PhraseID = phraseID.String
	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

func configText(c json.RawMessage) string {
	if len(c) == 0 {
		return "{}"
	}
	return string(c)
}
