// Package gesture turns hand landmark frames into gesture labels and tracks
// progress through an ordered phrase of gestures.
//
// The per-tick pipeline is FeatureExtractor → Classifier → Smoother →
// Gate → Sequencer. Session owns one instance of each and is driven by a
// single goroutine.
package gesture

import (
	"fmt"
	"strings"
)

// Label is a recognized gesture. The zero value is None.
type Label string

const (
	// None means no gesture was recognized.
	None Label = ""
	// Bom is a closed fist.
	Bom Label = "bom"
	// Dia is the index finger extended with the others relaxed.
	Dia Label = "dia"
	// Emergencia is an open, spread hand.
	Emergencia Label = "emergencia"
)

// Labels lists every recognized gesture, excluding None.
var Labels = []Label{Bom, Dia, Emergencia}

// String returns the label name, or "none" for None.
func (l Label) String() string {
	if l == None {
		return "none"
	}
	return string(l)
}

// Known reports whether l is one of the recognized gestures.
func (l Label) Known() bool {
	switch l {
	case Bom, Dia, Emergencia:
		return true
	}
	return false
}

// ParseLabel converts a name such as "bom" or "Emergência" into a Label.
func ParseLabel(s string) (Label, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "ê", "e")
	switch Label(name) {
	case Bom, Dia, Emergencia:
		return Label(name), nil
	}
	return None, fmt.Errorf("unknown gesture label %q", s)
}

// ParsePhrase parses an ordered list of label names.
func ParsePhrase(names []string) ([]Label, error) {
	phrase := make([]Label, 0, len(names))
	for _, n := range names {
		l, err := ParseLabel(n)
		if err != nil {
			return nil, err
		}
		phrase = append(phrase, l)
	}
	return phrase, nil
}

// JoinLabels renders labels separated by spaces, the way a phrase is read.
func JoinLabels(labels []Label) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}
