// Package testdata builds synthetic video frames for vision tests: solid
// color blobs on black backgrounds whose true centroids are known exactly.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Marker colors whose HSV values fall inside the default calibration
// thresholds (see calib.DefaultProfile).
var (
	// PrimaryGreen converts to HSV (60, 255, 255), inside the default
	// primary threshold (55-70).
	PrimaryGreen = color.RGBA{G: 255}

	// SecondaryBlue converts to HSV (120, ~200, 200), inside the default
	// secondary threshold (110-126, S/V capped at 240).
	SecondaryBlue = color.RGBA{R: 43, G: 43, B: 200}

	// BoundaryRed converts to HSV (0, 255, 255), useful for hue-wrap
	// thresholds that straddle the red boundary.
	BoundaryRed = color.RGBA{R: 255}
)

// NewFrame returns a width x height black BGR frame.
// The caller owns the returned Mat.
func NewFrame(width, height int) gocv.Mat {
	return gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
}

// FillRect paints a solid axis-aligned rectangle onto the frame.
func FillRect(frame *gocv.Mat, r image.Rectangle, c color.RGBA) {
	gocv.Rectangle(frame, r, c, -1)
}

// BlobFrame returns a black frame with one solid rectangular blob.
func BlobFrame(width, height int, blob image.Rectangle, c color.RGBA) gocv.Mat {
	frame := NewFrame(width, height)
	FillRect(&frame, blob, c)
	return frame
}
