package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/sinais/internal/store"
)

// maxRunLimit caps ?limit on GET /api/runs.
const maxRunLimit = 200

// RunHandler serves the phrase run history.
type RunHandler struct {
	store *store.Store
}

// NewRunHandler creates a new RunHandler with the given store.
func NewRunHandler(s *store.Store) *RunHandler {
	return &RunHandler{store: s}
}

// ServeHTTP routes GET /api/runs and GET /api/runs/{id}. The list accepts
// ?limit=N and ?all=true to include runs that never completed.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/runs"), "/")
	if id == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, id)
}

type acceptanceResponse struct {
	Step       int    `json:"step"`
	Label      string `json:"label"`
	AcceptedAt string `json:"accepted_at"`
}

type runResponse struct {
	ID          string               `json:"id"`
	PhraseID    string               `json:"phrase_id,omitempty"`
	Labels      []string             `json:"labels"`
	StartedAt   string               `json:"started_at"`
	CompletedAt string               `json:"completed_at,omitempty"`
	DurationMs  int64                `json:"duration_ms"`
	Accepted    []acceptanceResponse `json:"accepted"`
}

type listRunsResponse struct {
	Runs []runResponse `json:"runs"`
}

func toRunResponse(run *store.Run) runResponse {
	resp := runResponse{
		ID:          run.ID,
		PhraseID:    run.PhraseID,
		Labels:      run.Labels,
		StartedAt:   formatTime(run.StartedAt),
		CompletedAt: formatTime(run.CompletedAt),
		DurationMs:  run.Duration().Milliseconds(),
		Accepted:    make([]acceptanceResponse, 0, len(run.Accepted)),
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	for _, a := range run.Accepted {
		resp.Accepted = append(resp.Accepted, acceptanceResponse{
			Step:       a.Step,
			Label:      a.Label,
			AcceptedAt: formatTime(a.AcceptedAt),
		})
	}
	return resp
}

func (h *RunHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunLimit)
	}
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	runs, err := h.store.Runs().ListRecent(limit, !all)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	response := listRunsResponse{Runs: make([]runResponse, 0, len(runs))}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *RunHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	run, err := h.store.Runs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(run))
}
