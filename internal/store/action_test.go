package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestActionRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	s.Phrases().Create(&Phrase{ID: "p1", Name: "saudacao", Labels: []string{"bom"}})
	repo := s.Actions()

	a := &Action{
		ID:         "a1",
		PhraseID:   "p1",
		PluginName: "alert",
		ActionName: "notify",
		Config:     json.RawMessage(`{"title":"ola"}`),
		Enabled:    true,
	}
	if err := repo.Create(a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID("a1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PhraseID != "p1" || got.PluginName != "alert" || !got.Enabled {
		t.Errorf("GetByID() = %+v", got)
	}
	if string(got.Config) != `{"title":"ola"}` {
		t.Errorf("Config = %s", got.Config)
	}

	got.Enabled = false
	got.ActionName = "log"
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ = repo.GetByID("a1")
	if got.Enabled || got.ActionName != "log" {
		t.Errorf("after update = %+v", got)
	}

	if err := repo.Delete("a1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID("a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Update(&Action{ID: "a1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing error = %v, want ErrNotFound", err)
	}
}

func TestActionRepository_DefaultConfig(t *testing.T) {
	s := newTestStore(t)
	repo := s.Actions()

	repo.Create(&Action{ID: "a1", PluginName: "alert", ActionName: "notify", Enabled: true})
	got, _ := repo.GetByID("a1")
	if string(got.Config) != "{}" {
		t.Errorf("Config = %s, want {}", got.Config)
	}
	if got.PhraseID != "" {
		t.Errorf("PhraseID = %q, want empty", got.PhraseID)
	}
}

func TestActionRepository_ForPhrase(t *testing.T) {
	s := newTestStore(t)
	s.Phrases().Create(&Phrase{ID: "p1", Name: "one", Labels: []string{"bom"}})
	s.Phrases().Create(&Phrase{ID: "p2", Name: "two", Labels: []string{"dia"}})
	repo := s.Actions()

	for _, a := range []*Action{
		{ID: "global", PluginName: "alert", ActionName: "log", Enabled: true},
		{ID: "p1-on", PhraseID: "p1", PluginName: "alert", ActionName: "notify", Enabled: true},
		{ID: "p1-off", PhraseID: "p1", PluginName: "alert", ActionName: "notify", Enabled: false},
		{ID: "p2-on", PhraseID: "p2", PluginName: "alert", ActionName: "notify", Enabled: true},
	} {
		if err := repo.Create(a); err != nil {
			t.Fatalf("Create(%s) error = %v", a.ID, err)
		}
	}

	got, err := repo.ForPhrase("p1")
	if err != nil {
		t.Fatalf("ForPhrase() error = %v", err)
	}
	ids := map[string]bool{}
	for _, a := range got {
		ids[a.ID] = true
	}
	if len(got) != 2 || !ids["global"] || !ids["p1-on"] {
		t.Errorf("ForPhrase(p1) = %v, want global and p1-on", ids)
	}

	got, _ = repo.ForPhrase("")
	if len(got) != 1 || got[0].ID != "global" {
		t.Errorf("ForPhrase(\"\") should return only global actions, got %d", len(got))
	}
}

func TestActionRepository_PhraseDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	s.Phrases().Create(&Phrase{ID: "p1", Name: "one", Labels: []string{"bom"}})
	s.Actions().Create(&Action{ID: "a1", PhraseID: "p1", PluginName: "alert", ActionName: "log", Enabled: true})

	s.Phrases().Delete("p1")

	if _, err := s.Actions().GetByID("a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("action should be removed with its phrase, got %v", err)
	}
}
