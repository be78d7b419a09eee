package app

import (
	"context"
	"errors"
	"testing"

	"github.com/ayusman/sinais/internal/capture"
	"github.com/ayusman/sinais/internal/detector"
)

func TestCameraSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	cam := capture.NewMockCamera(640, 480, 0)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	src := NewCameraSource(cam, det)
	if _, ok := src.LatestFrame(); ok {
		t.Error("LatestFrame() before any read should be empty")
	}

	if _, err := src.Hands(context.Background()); !errors.Is(err, capture.ErrCameraNotOpen) {
		t.Errorf("Hands() on closed camera error = %v", err)
	}

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	hands, err := src.Hands(context.Background())
	if err != nil {
		t.Fatalf("Hands() error = %v", err)
	}
	if len(hands) != 1 || !hands[0].Valid() {
		t.Errorf("hands = %+v", hands)
	}
	if det.Calls() != 1 || cam.Reads() != 1 {
		t.Errorf("detector calls = %d, camera reads = %d", det.Calls(), cam.Reads())
	}

	frame, ok := src.LatestFrame()
	if !ok {
		t.Fatal("LatestFrame() after a read should be set")
	}
	if frame.Cols() != 640 || frame.Rows() != 480 {
		t.Errorf("frame size = %dx%d", frame.Cols(), frame.Rows())
	}
	frame.Close()

	det.SetError(errors.New("service crashed"))
	if _, err := src.Hands(context.Background()); err == nil {
		t.Error("expected detector error")
	}

	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("camera still open after Close()")
	}
}

func TestCameraSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewCameraSource(capture.NewMockCamera(64, 48, 0), detector.NewMockDetector())
	if _, err := src.Hands(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Hands() error = %v, want context.Canceled", err)
	}
}
