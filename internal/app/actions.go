package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ayusman/sinais/internal/gesture"
	"github.com/ayusman/sinais/internal/plugin"
)

// runActions starts every enabled action bound to the phrase. Plugins run on
// their own goroutines so a slow plugin never delays sampling; each is bounded
// by the executor timeout and by ctx.
func (a *App) runActions(ctx context.Context, res gesture.Result) {
	if a.config.Store == nil || a.config.Plugins == nil {
		return
	}

	actions, err := a.config.Store.Actions().ForPhrase(a.config.PhraseID)
	if err != nil {
		a.logger.Warn("load completion actions failed", "error", err)
		return
	}

	labels := make([]string, len(res.Progress.Accepted))
	for i, l := range res.Progress.Accepted {
		labels[i] = string(l)
	}

	for _, action := range actions {
		p, err := a.config.Plugins.Get(action.PluginName)
		if err != nil {
			a.logger.Warn("completion action skipped",
				"action_id", action.ID,
				"plugin", action.PluginName,
				"error", err,
			)
			continue
		}
		if !p.Manifest.HasAction(action.ActionName) {
			a.logger.Warn("completion action skipped",
				"action_id", action.ID,
				"plugin", action.PluginName,
				"action", action.ActionName,
				"error", "plugin does not declare action",
			)
			continue
		}

		req := &plugin.Request{
			Action:      action.ActionName,
			Phrase:      a.config.PhraseName,
			Labels:      labels,
			CompletedAt: res.At,
			Config:      json.RawMessage(action.Config),
		}

		a.actions.Add(1)
		go func(actionID string, p *plugin.Plugin, req *plugin.Request) {
			defer a.actions.Done()
			a.execute(ctx, actionID, p, req)
		}(action.ID, p, req)
	}
}

func (a *App) execute(ctx context.Context, actionID string, p *plugin.Plugin, req *plugin.Request) {
	start := time.Now()
	logger := a.logger.With("action_id", actionID, "plugin", p.Manifest.Name, "action", req.Action)

	resp, err := a.executor.Execute(ctx, p, req)
	switch {
	case err != nil && ctx.Err() != nil:
		logger.Debug("completion action cancelled")
	case err != nil:
		logger.Warn("completion action failed", "error", err, "elapsed", time.Since(start))
	case !resp.Success:
		logger.Warn("completion action reported failure", "error", resp.Error)
	default:
		logger.Info("completion action done", "elapsed", time.Since(start))
	}
}

// WaitActions blocks until every started completion action has finished.
func (a *App) WaitActions() {
	a.actions.Wait()
}
