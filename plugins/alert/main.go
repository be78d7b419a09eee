// Package main provides the alert plugin. When a phrase completes it either
// raises a desktop notification or appends a line to an alert log.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Request mirrors the request written by the plugin executor.
type Request struct {
	Action      string          `json:"action"`
	Phrase      string          `json:"phrase"`
	Labels      []string        `json:"labels"`
	CompletedAt time.Time       `json:"completed_at"`
	Config      json.RawMessage `json:"config"`
	Params      json.RawMessage `json:"params"`
}

// Response is written back to the executor on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// alertConfig is the per-binding configuration.
type alertConfig struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

type actionHandler func(req Request, cfg alertConfig) error

var actionHandlers = map[string]actionHandler{
	"notify": notify,
	"log":    appendLog,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	cfg := alertConfig{Title: "sinais"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeResponse(Response{Error: fmt.Sprintf("invalid config: %v", err)})
			return
		}
	}

	if err := handler(req, cfg); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
		return
	}

	data, _ := json.Marshal(map[string]string{"message": message(req)})
	writeResponse(Response{Success: true, Data: data})
}

func message(req Request) string {
	return fmt.Sprintf("%s: %s", req.Phrase, strings.Join(req.Labels, " "))
}

func notify(req Request, cfg alertConfig) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message(req), cfg.Title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", cfg.Title, message(req))
	default:
		return fmt.Errorf("notifications are not supported on %s", runtime.GOOS)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func appendLog(req Request, cfg alertConfig) error {
	if cfg.File == "" {
		return fmt.Errorf("config.file is required")
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	at := req.CompletedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err = fmt.Fprintf(f, "%s %s\n", at.Format(time.RFC3339), message(req))
	return err
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
