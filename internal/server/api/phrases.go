package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/sinais/internal/gesture"
	"github.com/ayusman/sinais/internal/store"
)

// PhraseHandler handles HTTP requests for phrase resources.
type PhraseHandler struct {
	store *store.Store
}

// NewPhraseHandler creates a new PhraseHandler with the given store.
func NewPhraseHandler(s *store.Store) *PhraseHandler {
	return &PhraseHandler{store: s}
}

// ServeHTTP routes /api/phrases and /api/phrases/{id}.
func (h *PhraseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/phrases")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, path)
	case http.MethodDelete:
		h.delete(w, r, path)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createPhraseRequest struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

type phraseResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Labels    []string `json:"labels"`
	CreatedAt string   `json:"created_at"`
}

type listPhrasesResponse struct {
	Phrases []phraseResponse `json:"phrases"`
}

func toPhraseResponse(p *store.Phrase) phraseResponse {
	labels := p.Labels
	if labels == nil {
		labels = []string{}
	}
	return phraseResponse{
		ID:        p.ID,
		Name:      p.Name,
		Labels:    labels,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func (h *PhraseHandler) list(w http.ResponseWriter, r *http.Request) {
	phrases, err := h.store.Phrases().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list phrases")
		return
	}

	response := listPhrasesResponse{Phrases: make([]phraseResponse, 0, len(phrases))}
	for _, p := range phrases {
		response.Phrases = append(response.Phrases, toPhraseResponse(p))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *PhraseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	phrase, err := h.store.Phrases().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get phrase")
		return
	}
	writeJSON(w, http.StatusOK, toPhraseResponse(phrase))
}

func (h *PhraseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	labels, err := gesture.ParsePhrase(req.Labels)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(labels) == 0 {
		writeError(w, http.StatusBadRequest, "labels must contain at least one gesture")
		return
	}

	if _, err := h.store.Phrases().GetByName(name); err == nil {
		writeError(w, http.StatusConflict, "Phrase name already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check phrase name")
		return
	}

	phrase := &store.Phrase{
		ID:     uuid.New().String(),
		Name:   name,
		Labels: make([]string, len(labels)),
	}
	for i, l := range labels {
		phrase.Labels[i] = string(l)
	}

	if err := h.store.Phrases().Create(phrase); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create phrase")
		return
	}
	writeJSON(w, http.StatusCreated, toPhraseResponse(phrase))
}

func (h *PhraseHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Phrases().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete phrase")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
