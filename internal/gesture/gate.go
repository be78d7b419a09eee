package gesture

import "time"

// Gate defaults.
const (
	DefaultHoldFrames = 6
	DefaultCooldown   = 1500 * time.Millisecond
)

// HoldState tracks consecutive stabilized frames matching the expected label.
type HoldState struct {
	Candidate Label `json:"candidate"`
	Count     int   `json:"count"`
}

// Gate accepts a gesture once the stabilized label has matched the expected
// label for holdFrames consecutive ticks and the cooldown since the previous
// acceptance has elapsed.
type Gate struct {
	holdFrames   int
	cooldown     time.Duration
	hold         HoldState
	lastAccepted time.Time
}

// NewGate creates a Gate. Non-positive arguments select the defaults.
func NewGate(holdFrames int, cooldown time.Duration) *Gate {
	if holdFrames <= 0 {
		holdFrames = DefaultHoldFrames
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{holdFrames: holdFrames, cooldown: cooldown}
}

// Observe feeds one stabilized label. stable is false when the smoother has
// no label yet; hasExpected is false when the phrase is already complete.
// It reports whether the expected label is accepted at now.
func (g *Gate) Observe(label Label, stable bool, expected Label, hasExpected bool, now time.Time) bool {
	if !stable || !hasExpected || label != expected {
		g.hold = HoldState{}
		return false
	}

	if g.hold.Candidate != label {
		g.hold = HoldState{Candidate: label, Count: 1}
	} else {
		g.hold.Count++
	}

	if g.hold.Count < g.holdFrames || !g.cooledDown(now) {
		return false
	}

	g.hold = HoldState{}
	g.lastAccepted = now
	return true
}

func (g *Gate) cooledDown(now time.Time) bool {
	if g.lastAccepted.IsZero() {
		return true
	}
	return now.Sub(g.lastAccepted) > g.cooldown
}

// Hold returns the current hold state.
func (g *Gate) Hold() HoldState {
	return g.hold
}

// LastAccepted returns when the gate last accepted, or the zero time.
func (g *Gate) LastAccepted() time.Time {
	return g.lastAccepted
}
