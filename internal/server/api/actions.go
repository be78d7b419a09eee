package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/sinais/internal/plugin"
	"github.com/ayusman/sinais/internal/store"
)

// ActionHandler handles HTTP requests for action resources.
type ActionHandler struct {
	store   *store.Store
	plugins *plugin.Manager
}

// NewActionHandler creates a new ActionHandler with the given store. When
// plugins is non-nil, new bindings must name a discovered plugin and one of
// its declared actions.
func NewActionHandler(s *store.Store, plugins *plugin.Manager) *ActionHandler {
	return &ActionHandler{store: s, plugins: plugins}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/actions or /api/actions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/actions")
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

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createActionRequest struct {
	PhraseID   string          `json:"phrase_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
}

type updateActionRequest struct {
	// PhraseID is a pointer so "" can unbind an action from its phrase.
	PhraseID   *string         `json:"phrase_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type actionResponse struct {
	ID         string          `json:"id"`
	PhraseID   string          `json:"phrase_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listActionsResponse struct {
	Actions []actionResponse `json:"actions"`
}

func toActionResponse(a *store.Action) actionResponse {
	config := a.Config
	if len(config) == 0 {
		config = json.RawMessage("{}")
	}
	return actionResponse{
		ID:         a.ID,
		PhraseID:   a.PhraseID,
		PluginName: a.PluginName,
		ActionName: a.ActionName,
		Config:     config,
		Enabled:    a.Enabled,
		CreatedAt:  formatTime(a.CreatedAt),
	}
}

// list handles GET /api/actions. ?phrase_id=X limits the result to the
// enabled actions that fire when phrase X completes.
func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		actions []*store.Action
		err     error
	)
	if phraseID := r.URL.Query().Get("phrase_id"); phraseID != "" {
		actions, err = h.store.Actions().ForPhrase(phraseID)
	} else {
		actions, err = h.store.Actions().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}

	response := listActionsResponse{
		Actions: make([]actionResponse, 0, len(actions)),
	}
	for _, a := range actions {
		response.Actions = append(response.Actions, toActionResponse(a))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *ActionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}
	writeJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *ActionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PluginName == "" {
		writeError(w, http.StatusBadRequest, "plugin_name is required")
		return
	}
	if req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "action_name is required")
		return
	}
	if status, msg := h.checkPhrase(req.PhraseID); status != 0 {
		writeError(w, status, msg)
		return
	}
	if msg := h.checkPlugin(req.PluginName, req.ActionName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if len(req.Config) > 0 && !json.Valid(req.Config) {
		writeError(w, http.StatusBadRequest, "config must be valid JSON")
		return
	}

	action := &store.Action{
		ID:         uuid.New().String(),
		PhraseID:   req.PhraseID,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    true,
	}
	if err := h.store.Actions().Create(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create action")
		return
	}
	writeJSON(w, http.StatusCreated, toActionResponse(action))
}

func (h *ActionHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}

	var req updateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PhraseID != nil {
		if status, msg := h.checkPhrase(*req.PhraseID); status != 0 {
			writeError(w, status, msg)
			return
		}
		action.PhraseID = *req.PhraseID
	}
	if req.PluginName != "" {
		action.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		action.ActionName = req.ActionName
	}
	if req.PluginName != "" || req.ActionName != "" {
		if msg := h.checkPlugin(action.PluginName, action.ActionName); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if req.Config != nil {
		if !json.Valid(req.Config) {
			writeError(w, http.StatusBadRequest, "config must be valid JSON")
			return
		}
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}

	if err := h.store.Actions().Update(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update action")
		return
	}
	writeJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *ActionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Actions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkPhrase returns a non-zero status when phraseID is set but unknown.
func (h *ActionHandler) checkPhrase(phraseID string) (int, string) {
	if phraseID == "" {
		return 0, ""
	}
	if _, err := h.store.Phrases().GetByID(phraseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return http.StatusBadRequest, "Phrase not found"
		}
		return http.StatusInternalServerError, "Failed to verify phrase"
	}
	return 0, ""
}

func (h *ActionHandler) checkPlugin(pluginName, actionName string) string {
	if h.plugins == nil {
		return ""
	}
	p, err := h.plugins.Get(pluginName)
	if err != nil {
		return "Plugin not found"
	}
	if !p.Manifest.HasAction(actionName) {
		return "Plugin does not declare action " + actionName
	}
	return ""
}
