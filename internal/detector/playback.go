package detector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Playback replays recorded landmark frames in order. Each recorded frame is
// the hand list the estimator produced for one sampling tick. It uses the
// same JSON line format as the MediaPipe service, so a recording can be made
// by teeing the service output.
type Playback struct {
	mu     sync.Mutex
	frames [][]HandLandmarks
	index  int
	loop   bool
}

// NewPlayback creates a Playback over the given frames.
func NewPlayback(frames [][]HandLandmarks, loop bool) *Playback {
	return &Playback{frames: frames, loop: loop}
}

// LoadPlayback reads a recording file with one JSON object per line.
// Blank lines are skipped.
func LoadPlayback(path string, loop bool) (*Playback, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	frames, err := ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("read recording %s: %w", path, err)
	}
	return NewPlayback(frames, loop), nil
}

// ReadRecording decodes recorded frames from r.
func ReadRecording(r io.Reader) ([][]HandLandmarks, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var frames [][]HandLandmarks
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		hands, err := decodeHands(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		frames = append(frames, hands)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

// WriteFrame appends one recorded frame to w in the playback format.
func WriteFrame(w io.Writer, hands []HandLandmarks) error {
	if hands == nil {
		hands = []HandLandmarks{}
	}
	data, err := json.Marshal(struct {
		Hands []HandLandmarks `json:"hands"`
	}{Hands: hands})
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Hands returns the next recorded frame. It returns ErrSourceExhausted after
// the last frame unless the playback loops.
func (p *Playback) Hands(ctx context.Context) ([]HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.index >= len(p.frames) {
		if !p.loop || len(p.frames) == 0 {
			return nil, ErrSourceExhausted
		}
		p.index = 0
	}

	frame := p.frames[p.index]
	p.index++

	out := make([]HandLandmarks, len(frame))
	for i := range frame {
		out[i] = frame[i].Clone()
	}
	return out, nil
}

// Len returns the number of recorded frames.
func (p *Playback) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// Reset restarts playback from the beginning.
func (p *Playback) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
}
