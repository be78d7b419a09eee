package gesture

import "fmt"

// Thresholds are the distance-ratio bounds used by Classifier.
type Thresholds struct {
	// BomMax bounds both features from above for a closed fist.
	BomMax float64 `json:"bom_max" toml:"bom_max"`
	// EmergenciaThumbIndexMin and EmergenciaIndexMiddleMin bound an open
	// hand from below.
	EmergenciaThumbIndexMin  float64 `json:"emergencia_thumb_index_min" toml:"emergencia_thumb_index_min"`
	EmergenciaIndexMiddleMin float64 `json:"emergencia_index_middle_min" toml:"emergencia_index_middle_min"`
	// DiaThumbIndexMin bounds the thumb-index spread from below, and
	// DiaIndexMiddleMin..DiaIndexMiddleMax is the inclusive index-middle band.
	DiaThumbIndexMin  float64 `json:"dia_thumb_index_min" toml:"dia_thumb_index_min"`
	DiaIndexMiddleMin float64 `json:"dia_index_middle_min" toml:"dia_index_middle_min"`
	DiaIndexMiddleMax float64 `json:"dia_index_middle_max" toml:"dia_index_middle_max"`
}

// DefaultThresholds returns the empirically tuned bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BomMax:                   0.50,
		EmergenciaThumbIndexMin:  1.05,
		EmergenciaIndexMiddleMin: 0.95,
		DiaThumbIndexMin:         0.90,
		DiaIndexMiddleMin:        0.40,
		DiaIndexMiddleMax:        0.70,
	}
}

// Validate checks that every bound is positive and the dia band is ordered.
func (t Thresholds) Validate() error {
	bounds := []struct {
		name  string
		value float64
	}{
		{"bom_max", t.BomMax},
		{"emergencia_thumb_index_min", t.EmergenciaThumbIndexMin},
		{"emergencia_index_middle_min", t.EmergenciaIndexMiddleMin},
		{"dia_thumb_index_min", t.DiaThumbIndexMin},
		{"dia_index_middle_min", t.DiaIndexMiddleMin},
		{"dia_index_middle_max", t.DiaIndexMiddleMax},
	}
	for _, b := range bounds {
		if b.value <= 0 {
			return fmt.Errorf("threshold %s must be positive, got %g", b.name, b.value)
		}
	}
	if t.DiaIndexMiddleMin > t.DiaIndexMiddleMax {
		return fmt.Errorf("dia_index_middle_min %g exceeds dia_index_middle_max %g",
			t.DiaIndexMiddleMin, t.DiaIndexMiddleMax)
	}
	return nil
}

// Classifier maps features to a raw label using ordered rules; the first
// matching rule wins.
type Classifier struct {
	thresholds Thresholds
	swap       bool
}

// NewClassifier creates a Classifier. When swapDiaEmergencia is set, dia and
// emergencia are exchanged on every classification before any downstream
// component sees the label.
func NewClassifier(t Thresholds, swapDiaEmergencia bool) *Classifier {
	return &Classifier{thresholds: t, swap: swapDiaEmergencia}
}

// Classify returns the label for f, with the alias applied.
func (c *Classifier) Classify(f Features) Label {
	return c.alias(c.classify(f))
}

func (c *Classifier) classify(f Features) Label {
	t := c.thresholds
	switch {
	case f.ThumbIndex < t.BomMax && f.IndexMiddle < t.BomMax:
		return Bom
	case f.ThumbIndex > t.EmergenciaThumbIndexMin && f.IndexMiddle > t.EmergenciaIndexMiddleMin:
		return Emergencia
	case f.ThumbIndex > t.DiaThumbIndexMin &&
		f.IndexMiddle >= t.DiaIndexMiddleMin && f.IndexMiddle <= t.DiaIndexMiddleMax:
		return Dia
	default:
		return None
	}
}

func (c *Classifier) alias(l Label) Label {
	if !c.swap {
		return l
	}
	switch l {
	case Dia:
		return Emergencia
	case Emergencia:
		return Dia
	}
	return l
}
