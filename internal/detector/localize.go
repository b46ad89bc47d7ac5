package detector

import (
	"gocv.io/x/gocv"
)

// Localize finds the connected foreground regions of a binary mask and
// reduces the largest one (first found on ties) to a centroid plus a
// confidence score. Confidence is the region's pixel area as a fraction of
// the frame area; detections below minConfidence are reported invalid so
// small skin patches and background clutter are rejected without
// discarding the frame.
func Localize(mask *gocv.Mat, minConfidence float64) MarkerDetection {
	contours := gocv.FindContours(*mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return MarkerDetection{}
	}

	bestIdx := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			bestIdx = i
			bestArea = area
		}
	}

	frameArea := float64(mask.Cols() * mask.Rows())
	confidence := bestArea / frameArea
	if confidence < minConfidence {
		return MarkerDetection{Confidence: confidence}
	}

	rect := gocv.BoundingRect(contours.At(bestIdx))

	return MarkerDetection{
		Centroid: Point{
			X: float64(rect.Min.X) + float64(rect.Dx())/2,
			Y: float64(rect.Min.Y) + float64(rect.Dy())/2,
		},
		Bounds:     rect,
		Confidence: confidence,
		Valid:      true,
	}
}
