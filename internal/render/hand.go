package render

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/sinais/internal/detector"
)

// fingerColors colors each finger's bones, thumb first. Connections are
// grouped four bones per finger.
var fingerColors = [5]color.RGBA{
	{R: 255, G: 128, A: 255},
	{R: 255, G: 230, A: 255},
	{G: 220, B: 90, A: 255},
	{G: 160, B: 255, A: 255},
	{R: 200, B: 255, A: 255},
}

// HandSkeleton draws the bones and joints of hand onto img. Landmarks are in
// frame pixels. Malformed hands are skipped.
func HandSkeleton(img *gocv.Mat, hand *detector.HandLandmarks, lineThickness int) {
	if !hand.Valid() {
		return
	}

	for i, bone := range detector.Connections {
		a, _ := hand.Point(bone[0])
		b, _ := hand.Point(bone[1])
		gocv.Line(img, pt(a), pt(b), fingerColors[(i/4)%len(fingerColors)], lineThickness)
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		p, _ := hand.Point(i)
		gocv.Circle(img, pt(p), lineThickness+2, White, -1)
	}
}

func pt(p detector.Point3D) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
