package api

import (
	"net/http"

	"github.com/ayusman/sinais/internal/plugin"
)

// PluginHandler lists discovered plugins so clients can bind actions.
type PluginHandler struct {
	plugins *plugin.Manager
}

// NewPluginHandler creates a PluginHandler over m.
func NewPluginHandler(m *plugin.Manager) *PluginHandler {
	return &PluginHandler{plugins: m}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

type listPluginsResponse struct {
	Plugins []pluginResponse `json:"plugins"`
}

func (h *PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := listPluginsResponse{Plugins: []pluginResponse{}}
	if h.plugins != nil {
		for _, p := range h.plugins.List() {
			actions := p.Manifest.Actions
			if actions == nil {
				actions = []string{}
			}
			response.Plugins = append(response.Plugins, pluginResponse{
				Name:        p.Manifest.Name,
				Version:     p.Manifest.Version,
				Description: p.Manifest.Description,
				Actions:     actions,
			})
		}
	}
	writeJSON(w, http.StatusOK, response)
}
