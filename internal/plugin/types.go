// Package plugin discovers and runs external completion actions. A plugin is
// a directory holding a plugin.json manifest and an executable that reads one
// JSON Request on stdin and writes one JSON Response on stdout.
package plugin

import (
	"encoding/json"
	"time"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// HasAction reports whether the manifest declares action.
func (m Manifest) HasAction(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request is sent to a plugin when a phrase completes.
type Request struct {
	Action      string          `json:"action"`
	Phrase      string          `json:"phrase"`
	Labels      []string        `json:"labels"`
	CompletedAt time.Time       `json:"completed_at"`
	Config      json.RawMessage `json:"config,omitempty"`
	Params      json.RawMessage `json:"params,omitempty"`
}

// Response is the plugin's answer.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
