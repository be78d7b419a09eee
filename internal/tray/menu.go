package tray

import (
	"fmt"

	"github.com/ayusman/sinais/internal/app"
)

type menuText struct {
	title  string
	phrase string
	next   string
	stable string
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func menuFor(p app.Progress) menuText {
	seq := p.Sequence
	m := menuText{
		title:  fmt.Sprintf("Sinais %d/%d", seq.Step, len(seq.Target)),
		phrase: "Phrase: " + p.Phrase,
		next:   "Next: " + seq.Next.String(),
		stable: "Seeing: none",
	}
	if seq.Complete {
		m.title = "Sinais ✓"
		m.next = "Next: (complete)"
	}
	if !p.Enabled {
		m.title = "Sinais (off)"
	}
	if p.HandVisible && p.HasStable {
		m.stable = "Seeing: " + p.Stable.String()
	}
	return m
}
