package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/sinais/internal/detector"
)

// Overlay describes what to draw over one frame.
type Overlay struct {
	Hand *detector.HandLandmarks
	// Stable is the majority-vote label, empty when there is none.
	Stable string
	// Accepted lists the phrase labels accepted so far.
	Accepted []string
	// Next is the expected label, empty once the phrase is complete.
	Next     string
	Complete bool
}

// Draw renders o onto a copy of frame and returns it. The caller closes the
// returned Mat.
func Draw(frame gocv.Mat, o Overlay) gocv.Mat {
	out := frame.Clone()
	font := DefaultFont()

	if o.Hand != nil {
		HandSkeleton(&out, o.Hand, 2)
	}

	stable := o.Stable
	if stable == "" {
		stable = "..."
	}
	box := CaptionAt(&out, stable, image.Pt(10, 10), font, captionColor(o))

	small := font
	small.Scale = 0.55
	small.Thickness = 1
	small.Pad = 6
	CaptionAt(&out, progressLine(o), image.Pt(10, box.Max.Y+6), small, Black)

	return out
}

func captionColor(o Overlay) color.RGBA {
	switch {
	case o.Complete:
		return Green
	case o.Stable != "" && o.Stable == o.Next:
		return Yellow
	}
	return Black
}

func progressLine(o Overlay) string {
	accepted := strings.Join(o.Accepted, " ")
	if o.Complete {
		return fmt.Sprintf("%s  (complete)", accepted)
	}
	if accepted == "" {
		return fmt.Sprintf("next: %s", o.Next)
	}
	return fmt.Sprintf("%s  next: %s", accepted, o.Next)
}
