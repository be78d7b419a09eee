package gesture

import (
	"errors"
	"fmt"
	"time"
)

// DefaultResetDelay is how long a completed phrase stays visible before the
// sequencer returns to the first step.
const DefaultResetDelay = 3000 * time.Millisecond

// DefaultPhrase is the phrase tracked when none is configured.
var DefaultPhrase = []Label{Bom, Dia, Emergencia}

// ErrEmptyPhrase is returned when a sequencer is built without any step.
var ErrEmptyPhrase = errors.New("phrase must contain at least one gesture")

// Snapshot is a read-only copy of phrase progress.
type Snapshot struct {
	Target   []Label `json:"target"`
	Accepted []Label `json:"accepted"`
	Step     int     `json:"step"`
	// Next is the expected label, or None once the phrase is complete.
	Next     Label `json:"next"`
	Complete bool  `json:"complete"`
}

// Sequencer walks a fixed ordered phrase. It is Running while step is below
// the phrase length and Completed once every label has been accepted.
// Completed lasts until Reset is called at least resetDelay after completion.
type Sequencer struct {
	target      []Label
	step        int
	accepted    []Label
	resetDelay  time.Duration
	completedAt time.Time
}

// NewSequencer creates a Sequencer over target. A non-positive resetDelay
// selects DefaultResetDelay.
func NewSequencer(target []Label, resetDelay time.Duration) (*Sequencer, error) {
	if len(target) == 0 {
		return nil, ErrEmptyPhrase
	}
	for i, l := range target {
		if !l.Known() {
			return nil, fmt.Errorf("phrase step %d: unknown gesture %q", i, l.String())
		}
	}
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}

	t := make([]Label, len(target))
	copy(t, target)
	return &Sequencer{
		target:     t,
		accepted:   make([]Label, 0, len(t)),
		resetDelay: resetDelay,
	}, nil
}

// Expected returns the label the phrase is waiting for. The second result
// is false once the phrase is complete.
func (s *Sequencer) Expected() (Label, bool) {
	if s.step >= len(s.target) {
		return None, false
	}
	return s.target[s.step], true
}

// Advance records an accepted label at now. It ignores labels other than the
// expected one and anything arriving while Completed. The result reports
// whether the phrase became complete with this acceptance.
func (s *Sequencer) Advance(l Label, now time.Time) bool {
	expected, ok := s.Expected()
	if !ok || l != expected {
		return false
	}

	s.accepted = append(s.accepted, l)
	s.step++

	if s.step == len(s.target) {
		s.completedAt = now
		return true
	}
	return false
}

// Complete reports whether every label has been accepted.
func (s *Sequencer) Complete() bool {
	return s.step == len(s.target)
}

// CompletedAt returns when the phrase last completed. It is only meaningful
// while Complete is true.
func (s *Sequencer) CompletedAt() time.Time {
	return s.completedAt
}

// ResetDelay returns the configured delay between completion and reset.
func (s *Sequencer) ResetDelay() time.Duration {
	return s.resetDelay
}

// Reset returns a completed phrase to the first step, provided the reset
// delay has elapsed at now. It reports whether the reset happened.
func (s *Sequencer) Reset(now time.Time) bool {
	if !s.Complete() || now.Sub(s.completedAt) < s.resetDelay {
		return false
	}
	s.step = 0
	s.accepted = s.accepted[:0]
	s.completedAt = time.Time{}
	return true
}

// Step returns the index of the next expected label.
func (s *Sequencer) Step() int {
	return s.step
}

// Snapshot returns a copy of the current progress.
func (s *Sequencer) Snapshot() Snapshot {
	next, _ := s.Expected()

	target := make([]Label, len(s.target))
	copy(target, s.target)
	accepted := make([]Label, len(s.accepted))
	copy(accepted, s.accepted)

	return Snapshot{
		Target:   target,
		Accepted: accepted,
		Step:     s.step,
		Next:     next,
		Complete: s.Complete(),
	}
}
