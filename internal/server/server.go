// Package server provides the HTTP server for the sinais gesture recognizer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/sinais/internal/app"
	"github.com/ayusman/sinais/internal/plugin"
	"github.com/ayusman/sinais/internal/server/api"
	"github.com/ayusman/sinais/internal/store"
)

// Driver is the view of the recognition driver the server needs.
type Driver interface {
	Progress() app.Progress
	Subscribe() (<-chan app.Progress, func())
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

// Config holds the server configuration. Every field is optional; routes
// whose dependency is missing are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	Plugins   *plugin.Manager
	Driver    Driver
	Frames    app.FrameSource
	// StreamInterval is the MJPEG frame period. Defaults to 66ms.
	StreamInterval time.Duration
	Logger         *slog.Logger
}

// Server represents the HTTP server for the sinais application.
type Server struct {
	config Config
	logger *slog.Logger
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: config,
		logger: logger.With("component", "server"),
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		phrases := api.NewPhraseHandler(s.config.Store)
		s.mux.Handle("/api/phrases", phrases)
		s.mux.Handle("/api/phrases/", phrases)

		runs := api.NewRunHandler(s.config.Store)
		s.mux.Handle("/api/runs", runs)
		s.mux.Handle("/api/runs/", runs)

		actions := api.NewActionHandler(s.config.Store, s.config.Plugins)
		s.mux.Handle("/api/actions", actions)
		s.mux.Handle("/api/actions/", actions)
	}

	if s.config.Plugins != nil {
		s.mux.Handle("/api/plugins", api.NewPluginHandler(s.config.Plugins))
	}

	if s.config.Driver != nil {
		s.mux.HandleFunc("/api/progress", s.handleProgress)
		s.mux.HandleFunc("/api/detection", s.handleDetection)
		s.mux.Handle("/api/progress/ws", NewProgressHandler(s.config.Driver, s.logger))
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames, s.config.Driver, s.config.StreamInterval))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Driver != nil {
		response["detection_enabled"] = s.config.Driver.IsEnabled()
	}
	writeJSON(w, http.StatusOK, response)
}

// handleProgress returns the latest published progress.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.Driver.Progress())
}

type detectionState struct {
	Enabled *bool `json:"enabled"`
}

// handleDetection reads (GET) or sets (PUT) whether sampling is enabled.
func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req detectionState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "enabled is required"})
			return
		}
		if err := s.config.Driver.SetEnabled(*req.Enabled); err != nil {
			s.logger.Warn("toggle detection failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save detection setting"})
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enabled := s.config.Driver.IsEnabled()
	writeJSON(w, http.StatusOK, detectionState{Enabled: &enabled})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("shutdown incomplete", "error", err)
		srv.Close()
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
