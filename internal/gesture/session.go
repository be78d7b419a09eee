package gesture

import (
	"fmt"
	"time"

	"github.com/ayusman/sinais/internal/detector"
)

// Config holds everything a Session needs. It is fixed for the lifetime of
// the session.
type Config struct {
	Phrase            []Label
	Thresholds        Thresholds
	Window            int
	HoldFrames        int
	Cooldown          time.Duration
	ResetDelay        time.Duration
	SwapDiaEmergencia bool
}

// DefaultConfig returns a Config with the default phrase and tuning.
func DefaultConfig() Config {
	phrase := make([]Label, len(DefaultPhrase))
	copy(phrase, DefaultPhrase)
	return Config{
		Phrase:     phrase,
		Thresholds: DefaultThresholds(),
		Window:     DefaultWindow,
		HoldFrames: DefaultHoldFrames,
		Cooldown:   DefaultCooldown,
		ResetDelay: DefaultResetDelay,
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if len(c.Phrase) == 0 {
		return ErrEmptyPhrase
	}
	for i, l := range c.Phrase {
		if !l.Known() {
			return fmt.Errorf("phrase step %d: unknown gesture %q", i, string(l))
		}
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.Window < 0 || c.HoldFrames < 0 || c.Cooldown < 0 || c.ResetDelay < 0 {
		return fmt.Errorf("window, hold frames, cooldown and reset delay must not be negative")
	}
	return nil
}

// Result describes one processed tick for presentation.
type Result struct {
	At time.Time `json:"at"`
	// Hand is the first detected hand, unmodified, for overlays.
	Hand     detector.HandLandmarks `json:"hand"`
	Features Features               `json:"features"`
	Raw      Label                  `json:"raw"`
	Stable   Label                  `json:"stable"`
	// HasStable is false until the vote window holds a label.
	HasStable bool      `json:"has_stable"`
	Hold      HoldState `json:"hold"`
	// Accepted is the label accepted on this tick, or None.
	Accepted Label `json:"accepted"`
	// Completed is true on the tick that completed the phrase.
	Completed bool     `json:"completed"`
	Progress  Snapshot `json:"progress"`
}

// Session is the mutable state of one recognition run. It is not safe for
// concurrent use; a single driver goroutine owns it and publishes Results.
type Session struct {
	classifier *Classifier
	smoother   *Smoother
	gate       *Gate
	sequencer  *Sequencer
}

// NewSession builds a Session from cfg.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seq, err := NewSequencer(cfg.Phrase, cfg.ResetDelay)
	if err != nil {
		return nil, err
	}
	return &Session{
		classifier: NewClassifier(cfg.Thresholds, cfg.SwapDiaEmergencia),
		smoother:   NewSmoother(cfg.Window),
		gate:       NewGate(cfg.HoldFrames, cfg.Cooldown),
		sequencer:  seq,
	}, nil
}

// Process runs one tick over the detected hands. Only the first hand is
// used. It returns false, leaving all state untouched, when there is no hand
// or the first hand is malformed.
func (s *Session) Process(hands []detector.HandLandmarks, now time.Time) (Result, bool) {
	if len(hands) == 0 {
		return Result{}, false
	}
	hand := &hands[0]

	features, ok := ExtractFeatures(hand)
	if !ok {
		return Result{}, false
	}

	raw := s.classifier.Classify(features)
	stable, hasStable := s.smoother.Push(raw)
	expected, hasExpected := s.sequencer.Expected()

	res := Result{
		At:        now,
		Hand:      hand.Clone(),
		Features:  features,
		Raw:       raw,
		Stable:    stable,
		HasStable: hasStable,
	}

	if s.gate.Observe(stable, hasStable, expected, hasExpected, now) {
		res.Accepted = expected
		res.Completed = s.sequencer.Advance(expected, now)
	}

	res.Hold = s.gate.Hold()
	res.Progress = s.sequencer.Snapshot()
	return res, true
}

// Reset returns a completed phrase to its first step once the reset delay
// has elapsed at now.
func (s *Session) Reset(now time.Time) bool {
	return s.sequencer.Reset(now)
}

// ResetDelay returns the delay between completion and reset.
func (s *Session) ResetDelay() time.Duration {
	return s.sequencer.ResetDelay()
}

// Snapshot returns a copy of the phrase progress.
func (s *Session) Snapshot() Snapshot {
	return s.sequencer.Snapshot()
}

// Window returns a copy of the vote window, oldest first.
func (s *Session) Window() []Label {
	return s.smoother.Window()
}
