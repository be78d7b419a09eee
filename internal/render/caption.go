package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Caption draws text on a filled box in the top left corner of img.
func Caption(img *gocv.Mat, text string, font Font, background color.RGBA) {
	CaptionAt(img, text, image.Pt(10, 10), font, background)
}

// CaptionAt draws text on a filled box whose top left corner is at origin.
func CaptionAt(img *gocv.Mat, text string, origin image.Point, font Font, background color.RGBA) image.Rectangle {
	if text == "" {
		return image.Rectangle{Min: origin, Max: origin}
	}

	size := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)
	box := image.Rect(
		origin.X, origin.Y,
		origin.X+size.X+2*font.Pad, origin.Y+size.Y+2*font.Pad,
	)
	gocv.Rectangle(img, box, background, -1)

	baseline := image.Pt(origin.X+font.Pad, origin.Y+font.Pad+size.Y)
	gocv.PutTextWithParams(img, text, baseline, font.Face, font.Scale, font.Color, font.Thickness, font.LineType, false)
	return box
}
