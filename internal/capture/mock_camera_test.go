package capture

import (
	"errors"
	"testing"
)

func TestMockCamera_Limit(t *testing.T) {
	cam := NewMockCamera(320, 240, 2)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Fatalf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		if f.Cols() != 320 || f.Rows() != 240 {
			t.Errorf("frame size = %dx%d, want 320x240", f.Cols(), f.Rows())
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error after the frame limit")
	}
	if cam.Reads() != 2 {
		t.Errorf("Reads() = %d, want 2", cam.Reads())
	}
}

func TestMockCamera_Unlimited(t *testing.T) {
	cam := NewMockCamera(0, 0, 0)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		if f.Cols() != DefaultWidth || f.Rows() != DefaultHeight {
			t.Errorf("frame size = %dx%d, want defaults", f.Cols(), f.Rows())
		}
		f.Close()
	}
}
