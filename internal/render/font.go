// Package render draws landmark skeletons and recognition captions onto
// video frames.
package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black  = color.RGBA{A: 255}
	Green  = color.RGBA{G: 200, A: 255}
	Yellow = color.RGBA{R: 255, G: 210, A: 255}
	Red    = color.RGBA{R: 230, G: 40, B: 40, A: 255}
)

// Font defines the parameters for rendering text on an image using GoCV.
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding around the text inside its background box.
	Pad int
}

// DefaultFont returns default font settings.
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.8,
		Color:     White,
		Thickness: 2,
		LineType:  gocv.LineAA,
		Pad:       8,
	}
}
