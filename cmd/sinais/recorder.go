package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ayusman/sinais/internal/app"
	"github.com/ayusman/sinais/internal/detector"
)

// recorder tees every successful sample of a source into a landmark
// recording readable by detector.LoadPlayback.
type recorder struct {
	src app.Source

	mu     sync.Mutex
	file   *os.File
	w      *bufio.Writer
	frames int
	err    error
}

func newRecorder(src app.Source, path string) (*recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return &recorder{src: src, file: f, w: bufio.NewWriter(f)}, nil
}

func (r *recorder) Hands(ctx context.Context) ([]detector.HandLandmarks, error) {
	hands, err := r.src.Hands(ctx)
	if err != nil {
		return hands, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		if r.err = detector.WriteFrame(r.w, hands); r.err == nil {
			r.frames++
		}
	}
	return hands, nil
}

// Frames returns the number of samples written.
func (r *recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes and closes the file. It reports the first write error.
func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.err, r.w.Flush(), r.file.Close())
}
