package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.hands == nil {
		return nil, nil
	}
	out := make([]HandLandmarks, len(m.hands))
	for i := range m.hands {
		out[i] = m.hands[i].Clone()
	}
	return out, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// SyntheticHand builds a well-formed hand whose normalized thumb-index and
// index-middle tip distances equal the given values. The wrist to middle MCP
// distance is 100 pixels.
func SyntheticHand(thumbIndex, indexMiddle float64) HandLandmarks {
	hand := restingHand()
	hand.Points[Wrist] = Point3D{X: 320, Y: 400}
	hand.Points[MiddleMCP] = Point3D{X: 320, Y: 300}
	hand.Points[IndexTip] = Point3D{X: 320, Y: 150}
	hand.Points[ThumbTip] = Point3D{X: 320 - thumbIndex*100, Y: 150}
	hand.Points[MiddleTip] = Point3D{X: 320 + indexMiddle*100, Y: 150}
	return hand
}

// FistLandmarks returns a closed fist in 640x480 pixel space. Every fingertip
// sits close to the palm, so it classifies as "bom".
func FistLandmarks() HandLandmarks {
	hand := restingHand()
	hand.Points[ThumbTip] = Point3D{X: 300, Y: 330}
	hand.Points[IndexTip] = Point3D{X: 320, Y: 340}
	hand.Points[MiddleTip] = Point3D{X: 335, Y: 345}
	hand.Points[RingTip] = Point3D{X: 350, Y: 345}
	hand.Points[PinkyTip] = Point3D{X: 362, Y: 345}
	return hand
}

// OpenHandLandmarks returns an open, spread hand. The thumb and the index and
// middle fingertips are far apart, so it classifies as "emergencia".
func OpenHandLandmarks() HandLandmarks {
	hand := restingHand()
	hand.Points[ThumbIP] = Point3D{X: 200, Y: 320}
	hand.Points[ThumbTip] = Point3D{X: 160, Y: 300}
	hand.Points[IndexDIP] = Point3D{X: 255, Y: 220}
	hand.Points[IndexTip] = Point3D{X: 240, Y: 200}
	hand.Points[MiddleDIP] = Point3D{X: 330, Y: 185}
	hand.Points[MiddleTip] = Point3D{X: 335, Y: 165}
	hand.Points[RingTip] = Point3D{X: 400, Y: 190}
	hand.Points[PinkyTip] = Point3D{X: 450, Y: 230}
	return hand
}

// PointingLandmarks returns a hand with the index finger extended and the
// middle finger half curled, which classifies as "dia".
func PointingLandmarks() HandLandmarks {
	hand := restingHand()
	hand.Points[ThumbTip] = Point3D{X: 250, Y: 270}
	hand.Points[IndexPIP] = Point3D{X: 302, Y: 250}
	hand.Points[IndexDIP] = Point3D{X: 301, Y: 215}
	hand.Points[IndexTip] = Point3D{X: 300, Y: 180}
	hand.Points[MiddleTip] = Point3D{X: 330, Y: 230}
	return hand
}

// restingHand returns a right hand with the wrist at (320,400) and the middle
// MCP 100 pixels above it. Callers override the joints that define a pose.
func restingHand() HandLandmarks {
	hand := HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}

	hand.Points[Wrist] = Point3D{X: 320, Y: 400}

	hand.Points[ThumbCMC] = Point3D{X: 290, Y: 385}
	hand.Points[ThumbMCP] = Point3D{X: 270, Y: 360}
	hand.Points[ThumbIP] = Point3D{X: 275, Y: 340}
	hand.Points[ThumbTip] = Point3D{X: 290, Y: 330}

	hand.Points[IndexMCP] = Point3D{X: 295, Y: 305}
	hand.Points[IndexPIP] = Point3D{X: 300, Y: 280}
	hand.Points[IndexDIP] = Point3D{X: 305, Y: 300}
	hand.Points[IndexTip] = Point3D{X: 310, Y: 320}

	hand.Points[MiddleMCP] = Point3D{X: 320, Y: 300}
	hand.Points[MiddlePIP] = Point3D{X: 322, Y: 275}
	hand.Points[MiddleDIP] = Point3D{X: 326, Y: 295}
	hand.Points[MiddleTip] = Point3D{X: 330, Y: 318}

	hand.Points[RingMCP] = Point3D{X: 342, Y: 305}
	hand.Points[RingPIP] = Point3D{X: 346, Y: 285}
	hand.Points[RingDIP] = Point3D{X: 349, Y: 303}
	hand.Points[RingTip] = Point3D{X: 350, Y: 320}

	hand.Points[PinkyMCP] = Point3D{X: 362, Y: 315}
	hand.Points[PinkyPIP] = Point3D{X: 366, Y: 300}
	hand.Points[PinkyDIP] = Point3D{X: 366, Y: 315}
	hand.Points[PinkyTip] = Point3D{X: 364, Y: 328}

	return hand
}
