// Package app drives gesture recognition: it samples a landmark source on a
// fixed period, feeds the gesture session, records progress and fires plugin
// actions when the phrase completes.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/sinais/internal/detector"
	"github.com/ayusman/sinais/internal/gesture"
	"github.com/ayusman/sinais/internal/plugin"
	"github.com/ayusman/sinais/internal/store"
)

// DefaultInterval is the sampling period of the driver.
const DefaultInterval = 100 * time.Millisecond

// ErrAlreadyRunning is returned by Start while the driver loop is running and
// by Step when called concurrently with it.
var ErrAlreadyRunning = errors.New("driver already running")

// Config holds configuration options for the application.
type Config struct {
	Session gesture.Config
	// PhraseName labels runs, logs and plugin requests.
	PhraseName string
	// PhraseID links runs and actions to a stored phrase. Empty when the
	// phrase came from the config file.
	PhraseID string
	Interval time.Duration
	// StartDisabled makes sampling start off unless a stored setting says
	// otherwise.
	StartDisabled bool

	// Store is optional. Without it nothing is recorded and no actions fire.
	Store      *store.Store
	RecordRuns bool

	// Plugins is optional. Without it completion actions are skipped.
	Plugins       *plugin.Manager
	PluginTimeout time.Duration

	Logger *slog.Logger
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Progress is the published view of one tick.
type Progress struct {
	At      time.Time `json:"at"`
	Enabled bool      `json:"enabled"`
	Phrase  string    `json:"phrase"`
	// HandVisible is false when the last sample had no usable hand. Raw,
	// Stable and Hold then carry the values of the last processed tick.
	HandVisible bool                    `json:"hand_visible"`
	Hand        *detector.HandLandmarks `json:"hand,omitempty"`
	Features    gesture.Features        `json:"features"`
	Raw         gesture.Label           `json:"raw"`
	Stable      gesture.Label           `json:"stable"`
	HasStable   bool                    `json:"has_stable"`
	Hold        gesture.HoldState       `json:"hold"`
	Sequence    gesture.Snapshot        `json:"sequence"`
}

func (p Progress) clone() Progress {
	if p.Hand != nil {
		h := p.Hand.Clone()
		p.Hand = &h
	}
	p.Sequence.Target = append([]gesture.Label(nil), p.Sequence.Target...)
	p.Sequence.Accepted = append([]gesture.Label(nil), p.Sequence.Accepted...)
	return p
}

// App is the main application that orchestrates gesture detection and
// completion actions. The session and run state are owned by whichever
// goroutine holds the tick guard.
type App struct {
	config   Config
	logger   *slog.Logger
	source   Source
	session  *gesture.Session
	executor *plugin.Executor
	clock    func() time.Time

	enabled atomic.Bool
	busy    atomic.Bool

	// Owned by the tick path.
	run         *store.Run
	completedAt time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	pubMu    sync.RWMutex
	progress Progress
	subs     map[int]chan Progress
	nextSub  int

	actions sync.WaitGroup
}

// New creates an App reading from source. A stored detection setting takes
// precedence over Config.StartDisabled.
func New(config Config, source Source) (*App, error) {
	if source == nil {
		return nil, errors.New("landmark source is required")
	}
	session, err := gesture.NewSession(config.Session)
	if err != nil {
		return nil, fmt.Errorf("gesture session: %w", err)
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.PhraseName == "" {
		config.PhraseName = gesture.JoinLabels(config.Session.Phrase)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	a := &App{
		config:   config,
		logger:   logger.With("component", "driver"),
		source:   source,
		session:  session,
		executor: plugin.NewExecutor(config.PluginTimeout),
		clock:    clock,
		subs:     make(map[int]chan Progress),
	}

	enabled := !config.StartDisabled
	if config.Store != nil {
		enabled = config.Store.Settings().Bool(store.SettingDetectionEnabled, enabled)
	}
	a.enabled.Store(enabled)
	a.progress = Progress{
		At:       clock(),
		Enabled:  enabled,
		Phrase:   config.PhraseName,
		Sequence: session.Snapshot(),
	}
	return a, nil
}

// SetEnabled enables or disables sampling and persists the choice.
func (a *App) SetEnabled(enabled bool) error {
	a.enabled.Store(enabled)

	a.pubMu.Lock()
	a.progress.Enabled = enabled
	p := a.progress.clone()
	a.pubMu.Unlock()
	a.broadcast(p)

	a.logger.Info("detection toggled", "enabled", enabled)
	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().SetBool(store.SettingDetectionEnabled, enabled); err != nil {
		return fmt.Errorf("save detection setting: %w", err)
	}
	return nil
}

// IsEnabled returns whether sampling is currently enabled.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// PhraseName returns the name of the target phrase.
func (a *App) PhraseName() string {
	return a.config.PhraseName
}

// Interval returns the sampling period.
func (a *App) Interval() time.Duration {
	return a.config.Interval
}

// Start launches the driver loop. It returns ErrAlreadyRunning if the loop is
// already running.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return ErrAlreadyRunning
	}

	if a.config.Store != nil {
		n, err := a.config.Store.Runs().PruneIncomplete(a.clock())
		if err != nil {
			a.logger.Warn("prune incomplete runs failed", "error", err)
		} else if n > 0 {
			a.logger.Info("pruned incomplete runs", "count", n)
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.loop(loopCtx, a.done)

	a.logger.Info("driver started",
		"phrase", a.config.PhraseName,
		"interval", a.config.Interval,
		"enabled", a.IsEnabled(),
	)
	return nil
}

// Stop cancels the driver loop and its pending reset, waits for the loop and
// any running plugin actions to exit, then returns. It is safe to call more
// than once.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	a.actions.Wait()
	a.logger.Info("driver stopped")
}

// Running reports whether the driver loop is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// Done returns a channel closed when the current loop exits, or nil when
// the loop is not running.
func (a *App) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Progress returns a copy of the latest published progress.
func (a *App) Progress() Progress {
	a.pubMu.RLock()
	defer a.pubMu.RUnlock()
	return a.progress.clone()
}

// Subscribe registers for progress updates. Slow subscribers miss updates
// rather than block the driver. Call the returned function to unsubscribe.
func (a *App) Subscribe() (<-chan Progress, func()) {
	ch := make(chan Progress, 8)

	a.pubMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = ch
	a.pubMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.pubMu.Lock()
			delete(a.subs, id)
			a.pubMu.Unlock()
			close(ch)
		})
	}
}

func (a *App) publish(p Progress) {
	a.pubMu.Lock()
	a.progress = p
	a.pubMu.Unlock()
	a.broadcast(p.clone())
}

func (a *App) broadcast(p Progress) {
	a.pubMu.RLock()
	defer a.pubMu.RUnlock()
	for _, ch := range a.subs {
		select {
		case ch <- p.clone():
		default:
		}
	}
}
