// Package testdata embeds landmark recordings shared by end-to-end tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/ayusman/sinais/internal/detector"
)

//go:embed recordings/*.jsonl
var recordingsFS embed.FS

// Help is the recording of the bom, dia, emergencia phrase: two empty
// frames, bom for 8 frames, one malformed hand, then dia and emergencia for
// 10 frames each and three empty frames.
const Help = "help.jsonl"

// LoadRecording loads an embedded recording as a non-looping playback.
func LoadRecording(name string) (*detector.Playback, error) {
	data, err := recordingsFS.ReadFile("recordings/" + name)
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}
	frames, err := detector.ReadRecording(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode recording %s: %w", name, err)
	}
	return detector.NewPlayback(frames, false), nil
}
