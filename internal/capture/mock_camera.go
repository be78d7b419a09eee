package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera produces blank frames of a fixed size. It is used when the
// landmark detector is mocked and the pixels do not matter.
type MockCamera struct {
	width, height int
	limit         int
	reads         int
	fps           int
	mu            sync.Mutex
	running       bool
}

// NewMockCamera creates a camera that yields limit blank frames, or frames
// forever when limit is 0.
func NewMockCamera(width, height, limit int) *MockCamera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &MockCamera{width: width, height: height, limit: limit, fps: DefaultFPS}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.reads = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if c.limit > 0 && c.reads >= c.limit {
		return nil, fmt.Errorf("no more frames after %d", c.limit)
	}
	c.reads++

	frame := gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)
	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns how many frames have been handed out since Open.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
