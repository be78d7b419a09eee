package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/sinais/internal/detector"
)

const epsilon = 1e-9

func TestExtractFeatures(t *testing.T) {
	t.Run("normalizes by wrist to middle MCP distance", func(t *testing.T) {
		hand := detector.SyntheticHand(0.3, 0.7)

		f, ok := ExtractFeatures(&hand)
		if !ok {
			t.Fatal("expected features for a well-formed hand")
		}
		if math.Abs(f.ThumbIndex-0.3) > epsilon {
			t.Errorf("ThumbIndex = %f, want 0.3", f.ThumbIndex)
		}
		if math.Abs(f.IndexMiddle-0.7) > epsilon {
			t.Errorf("IndexMiddle = %f, want 0.7", f.IndexMiddle)
		}
	})

	t.Run("is scale invariant", func(t *testing.T) {
		hand := detector.SyntheticHand(1.2, 0.5)
		big := hand.Clone()
		big.Scale(3, 3)

		a, _ := ExtractFeatures(&hand)
		b, _ := ExtractFeatures(&big)
		if math.Abs(a.ThumbIndex-b.ThumbIndex) > epsilon || math.Abs(a.IndexMiddle-b.IndexMiddle) > epsilon {
			t.Errorf("features changed with scale: %+v vs %+v", a, b)
		}
	})

	t.Run("ignores depth", func(t *testing.T) {
		hand := detector.SyntheticHand(0.4, 0.4)
		hand.Points[detector.ThumbTip].Z = 500

		f, _ := ExtractFeatures(&hand)
		if math.Abs(f.ThumbIndex-0.4) > epsilon {
			t.Errorf("ThumbIndex = %f, want 0.4", f.ThumbIndex)
		}
	})

	t.Run("zero base distance uses divisor of one", func(t *testing.T) {
		hand := detector.SyntheticHand(0.5, 0.5)
		hand.Points[detector.MiddleMCP] = hand.Points[detector.Wrist]

		f, ok := ExtractFeatures(&hand)
		if !ok {
			t.Fatal("expected features for a degenerate but well-formed hand")
		}
		// Raw pixel distances: 50 and 50.
		if math.Abs(f.ThumbIndex-50) > epsilon || math.Abs(f.IndexMiddle-50) > epsilon {
			t.Errorf("features = %+v, want raw distances of 50", f)
		}
		if math.IsNaN(f.ThumbIndex) || math.IsInf(f.ThumbIndex, 0) {
			t.Error("features must be finite")
		}
	})

	t.Run("rejects malformed hands", func(t *testing.T) {
		short := detector.SyntheticHand(0.2, 0.2)
		short.Points = short.Points[:detector.NumLandmarks-1]

		long := detector.SyntheticHand(0.2, 0.2)
		long.Points = append(long.Points, detector.Point3D{})

		for name, hand := range map[string]*detector.HandLandmarks{
			"nil":   nil,
			"empty": {},
			"short": &short,
			"long":  &long,
		} {
			if _, ok := ExtractFeatures(hand); ok {
				t.Errorf("%s: expected malformed hand to be rejected", name)
			}
		}
	})
}

func TestPresetHandsClassify(t *testing.T) {
	c := NewClassifier(DefaultThresholds(), false)

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"fist", detector.FistLandmarks(), Bom},
		{"open hand", detector.OpenHandLandmarks(), Emergencia},
		{"pointing", detector.PointingLandmarks(), Dia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ExtractFeatures(&tt.hand)
			if !ok {
				t.Fatal("preset hand should be well-formed")
			}
			if got := c.Classify(f); got != tt.want {
				t.Errorf("Classify(%+v) = %s, want %s", f, got, tt.want)
			}
		})
	}
}
