package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// OpenKernelSize is the side length of the square structuring element used
// for morphological opening of segmentation masks.
const OpenKernelSize = 3

// hueMax is the largest hue value in OpenCV's 8-bit HSV representation.
const hueMax = 179

// Segment produces a binary mask over the HSV image where a pixel is
// foreground iff it lies within the threshold componentwise. When the hue
// interval wraps (Lower.H > Upper.H) the mask is the union of the two
// straight intervals [Lower.H, hueMax] and [0, Upper.H]. A small
// morphological opening removes speckle noise before contour extraction.
func Segment(hsv *gocv.Mat, t ColorThreshold) gocv.Mat {
	mask := gocv.NewMat()

	if t.Lower.H <= t.Upper.H {
		lower := gocv.NewScalar(float64(t.Lower.H), float64(t.Lower.S), float64(t.Lower.V), 0)
		upper := gocv.NewScalar(float64(t.Upper.H), float64(t.Upper.S), float64(t.Upper.V), 0)
		gocv.InRangeWithScalar(*hsv, lower, upper, &mask)
	} else {
		// Hue wraps through 0: threshold the two halves and OR them.
		highMask := gocv.NewMat()
		defer highMask.Close()
		lowMask := gocv.NewMat()
		defer lowMask.Close()

		gocv.InRangeWithScalar(*hsv,
			gocv.NewScalar(float64(t.Lower.H), float64(t.Lower.S), float64(t.Lower.V), 0),
			gocv.NewScalar(hueMax, float64(t.Upper.S), float64(t.Upper.V), 0),
			&highMask)
		gocv.InRangeWithScalar(*hsv,
			gocv.NewScalar(0, float64(t.Lower.S), float64(t.Lower.V), 0),
			gocv.NewScalar(float64(t.Upper.H), float64(t.Upper.S), float64(t.Upper.V), 0),
			&lowMask)

		gocv.BitwiseOr(highMask, lowMask, &mask)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(OpenKernelSize, OpenKernelSize))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	return mask
}
