// Package tray provides a system tray menu for the sinais gesture recognizer.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/sinais/internal/app"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuPhrase *systray.MenuItem
	menuNext   *systray.MenuItem
	menuStable *systray.MenuItem

	ready   chan struct{}
	pending *app.Progress
}

// New creates a new Tray instance reflecting the given enabled state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
		ready:   make(chan struct{}),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback for the "Open web UI" item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application. It blocks until Quit is called
// and must run on the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Sinais")
	systray.SetTooltip("Sinais hand gesture phrases")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture recognition")
	systray.AddSeparator()

	t.menuPhrase = systray.AddMenuItem("Phrase: -", "Target phrase")
	t.menuPhrase.Disable()
	t.menuNext = systray.AddMenuItem("Next: -", "Next expected gesture")
	t.menuNext.Disable()
	t.menuStable = systray.AddMenuItem("Seeing: none", "Current stable gesture")
	t.menuStable.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open web UI...", "Open the web UI in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Sinais")

	pending := t.pending
	t.pending = nil
	close(t.ready)
	t.mu.Unlock()

	if pending != nil {
		t.Update(*pending)
	}

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// Update refreshes the menu from a progress snapshot. Updates that arrive
// before the menu exists are applied once it is ready.
func (t *Tray) Update(p app.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.ready:
	default:
		t.pending = &p
		return
	}

	m := menuFor(p)
	t.enabled = p.Enabled
	t.menuToggle.SetTitle(toggleTitle(p.Enabled))
	t.menuPhrase.SetTitle(m.phrase)
	t.menuNext.SetTitle(m.next)
	t.menuStable.SetTitle(m.stable)
	systray.SetTitle(m.title)
}

// Watch applies every update from updates until the channel closes.
func (t *Tray) Watch(updates <-chan app.Progress) {
	for p := range updates {
		t.Update(p)
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
