package tray

import (
	"testing"

	"github.com/ayusman/sinais/internal/app"
	"github.com/ayusman/sinais/internal/gesture"
)

func TestMenuFor(t *testing.T) {
	target := []gesture.Label{gesture.Bom, gesture.Dia, gesture.Emergencia}

	tests := []struct {
		name string
		p    app.Progress
		want menuText
	}{
		{
			name: "start",
			p: app.Progress{
				Enabled:  true,
				Phrase:   "help",
				Sequence: gesture.Snapshot{Target: target, Next: gesture.Bom},
			},
			want: menuText{"Sinais 0/3", "Phrase: help", "Next: bom", "Seeing: none"},
		},
		{
			name: "midway with stable hand",
			p: app.Progress{
				Enabled:     true,
				Phrase:      "help",
				HandVisible: true,
				Stable:      gesture.Dia,
				HasStable:   true,
				Sequence:    gesture.Snapshot{Target: target, Step: 1, Next: gesture.Dia},
			},
			want: menuText{"Sinais 1/3", "Phrase: help", "Next: dia", "Seeing: dia"},
		},
		{
			name: "hand gone",
			p: app.Progress{
				Enabled:   true,
				Phrase:    "help",
				Stable:    gesture.Dia,
				HasStable: true,
				Sequence:  gesture.Snapshot{Target: target, Step: 1, Next: gesture.Dia},
			},
			want: menuText{"Sinais 1/3", "Phrase: help", "Next: dia", "Seeing: none"},
		},
		{
			name: "complete",
			p: app.Progress{
				Enabled:  true,
				Phrase:   "help",
				Sequence: gesture.Snapshot{Target: target, Step: 3, Complete: true},
			},
			want: menuText{"Sinais ✓", "Phrase: help", "Next: (complete)", "Seeing: none"},
		},
		{
			name: "disabled",
			p: app.Progress{
				Phrase:   "help",
				Sequence: gesture.Snapshot{Target: target, Next: gesture.Bom},
			},
			want: menuText{"Sinais (off)", "Phrase: help", "Next: bom", "Seeing: none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := menuFor(tt.p); got != tt.want {
				t.Errorf("menuFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToggleTitle(t *testing.T) {
	if toggleTitle(true) != "● Enabled" || toggleTitle(false) != "○ Disabled" {
		t.Error("unexpected toggle titles")
	}
}

func TestUpdate_BeforeReady(t *testing.T) {
	tr := New(true)
	tr.Update(app.Progress{Enabled: false, Phrase: "help"})

	if tr.pending == nil || tr.pending.Phrase != "help" {
		t.Fatalf("pending = %+v, want queued update", tr.pending)
	}
	if !tr.IsEnabled() {
		t.Error("queued update changed enabled state before the menu existed")
	}
}
