// Package detector isolates colored markers in video frames via HSV
// thresholding and localizes them as centroids with confidence scores.
package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// HSV is a color in OpenCV's HSV space (hue 0-179, saturation and value 0-255).
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// ColorThreshold selects the HSV range belonging to one marker.
// A Lower.H greater than Upper.H means the hue interval wraps through 0,
// which is required for markers near the red boundary.
type ColorThreshold struct {
	Lower         HSV     `json:"lower"`
	Upper         HSV     `json:"upper"`
	MinConfidence float64 `json:"min_confidence"`
}

// Point is a position in frame space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarkerDetection is the localization result for one marker in one frame.
// Valid is false when no region was found or the best region's confidence
// fell below the threshold's MinConfidence.
type MarkerDetection struct {
	Centroid   Point           `json:"centroid"`
	Bounds     image.Rectangle `json:"-"`
	Confidence float64         `json:"confidence"`
	Valid      bool            `json:"valid"`
}

// Detection holds the per-frame results for both tracked markers.
type Detection struct {
	Primary   MarkerDetection `json:"primary"`
	Secondary MarkerDetection `json:"secondary"`
}

// Detect converts a BGR frame to HSV once and runs segmentation plus
// localization for both markers. Deterministic: the same frame and
// thresholds always produce the same result.
func Detect(frame *gocv.Mat, primary, secondary ColorThreshold) Detection {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	primaryMask := Segment(&hsv, primary)
	defer primaryMask.Close()
	secondaryMask := Segment(&hsv, secondary)
	defer secondaryMask.Close()

	return Detection{
		Primary:   Localize(&primaryMask, primary.MinConfidence),
		Secondary: Localize(&secondaryMask, secondary.MinConfidence),
	}
}

// Masks holds the binary segmentation masks for one frame, exposed for
// calibration preview. The caller owns both Mats.
type Masks struct {
	Primary   gocv.Mat
	Secondary gocv.Mat
}

// Close releases both masks.
func (m *Masks) Close() {
	m.Primary.Close()
	m.Secondary.Close()
}

// DetectWithMasks is Detect but also returns the two segmentation masks so
// the calibration tool can render live threshold feedback.
func DetectWithMasks(frame *gocv.Mat, primary, secondary ColorThreshold) (Detection, Masks) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	masks := Masks{
		Primary:   Segment(&hsv, primary),
		Secondary: Segment(&hsv, secondary),
	}

	det := Detection{
		Primary:   Localize(&masks.Primary, primary.MinConfidence),
		Secondary: Localize(&masks.Secondary, secondary.MinConfidence),
	}

	return det, masks
}
