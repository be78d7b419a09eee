// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Connections lists the bones of the hand skeleton as landmark index pairs,
// wrist outward for each finger.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{Wrist, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{Wrist, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point3D represents a point in image space. Z is relative depth and may be zero.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand. Points is index-addressed using the
// constants above; a well-formed hand has exactly NumLandmarks points.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Valid reports whether the hand carries exactly NumLandmarks points.
func (h *HandLandmarks) Valid() bool {
	return h != nil && len(h.Points) == NumLandmarks
}

// Point returns the landmark at index i, or false when i is out of range.
func (h *HandLandmarks) Point(i int) (Point3D, bool) {
	if h == nil || i < 0 || i >= len(h.Points) {
		return Point3D{}, false
	}
	return h.Points[i], true
}

// Clone returns a deep copy so callers can hand landmarks to readers on
// other goroutines.
func (h *HandLandmarks) Clone() HandLandmarks {
	if h == nil {
		return HandLandmarks{}
	}
	points := make([]Point3D, len(h.Points))
	copy(points, h.Points)
	return HandLandmarks{
		Points:     points,
		Handedness: h.Handedness,
		Score:      h.Score,
	}
}

// Scale multiplies X and Y by the given factors in place. It converts
// normalized estimator output into frame-pixel coordinates.
func (h *HandLandmarks) Scale(sx, sy float64) {
	for i := range h.Points {
		h.Points[i].X *= sx
		h.Points[i].Y *= sy
	}
}
