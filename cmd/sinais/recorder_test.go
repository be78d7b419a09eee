package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ayusman/sinais/internal/detector"
)

func TestRecorder_RoundTrip(t *testing.T) {
	src := detector.NewPlayback([][]detector.HandLandmarks{
		{bomHand},
		{},
		{diaHand},
	}, false)

	path := filepath.Join(t.TempDir(), "rec.jsonl")
	rec, err := newRecorder(src, path)
	if err != nil {
		t.Fatalf("newRecorder: %v", err)
	}

	ctx := context.Background()
	for {
		if _, err := rec.Hands(ctx); err != nil {
			if !errors.Is(err, detector.ErrSourceExhausted) {
				t.Fatalf("Hands: %v", err)
			}
			break
		}
	}
	if rec.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	replay, err := detector.LoadPlayback(path, false)
	if err != nil {
		t.Fatalf("LoadPlayback: %v", err)
	}
	if replay.Len() != 3 {
		t.Fatalf("replay Len() = %d, want 3", replay.Len())
	}
	first, _ := replay.Hands(ctx)
	second, _ := replay.Hands(ctx)
	if len(first) != 1 || len(second) != 0 {
		t.Errorf("frames = %d, %d hands; want 1, 0", len(first), len(second))
	}
}
