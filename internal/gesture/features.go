package gesture

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/sinais/internal/detector"
)

// Features are scale-invariant tip distances used for classification.
// Both are divided by the wrist to middle MCP distance.
type Features struct {
	ThumbIndex  float64 `json:"thumb_index"`
	IndexMiddle float64 `json:"index_middle"`
}

// ExtractFeatures computes Features for a hand. It returns false when the
// hand is malformed, in which case the tick must be discarded.
func ExtractFeatures(hand *detector.HandLandmarks) (Features, bool) {
	if !hand.Valid() {
		return Features{}, false
	}

	base := distance(hand, detector.Wrist, detector.MiddleMCP)
	if base == 0 {
		base = 1
	}

	return Features{
		ThumbIndex:  distance(hand, detector.ThumbTip, detector.IndexTip) / base,
		IndexMiddle: distance(hand, detector.IndexTip, detector.MiddleTip) / base,
	}, true
}

// distance is the planar Euclidean distance between landmarks i and j.
// Out-of-range indices yield zero.
func distance(hand *detector.HandLandmarks, i, j int) float64 {
	a, ok := hand.Point(i)
	if !ok {
		return 0
	}
	b, ok := hand.Point(j)
	if !ok {
		return 0
	}
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}
