package app

import (
	"image"
	"image/color"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/silentbyte/quackhunt/internal/capture"
	"github.com/silentbyte/quackhunt/internal/detector"
)

// Preview is a read-only snapshot of the latest processed frame, exposed
// for on-screen calibration feedback. JPEG holds the annotated camera
// frame with both segmentation masks composited side by side.
type Preview struct {
	Detection detector.Detection `json:"detection"`
	Seq       uint64             `json:"seq"`
	Timestamp time.Time          `json:"timestamp"`
	JPEG      []byte             `json:"-"`
}

// previewState gates preview generation. Building the composite costs a
// JPEG encode per frame, so it only runs while at least one calibration
// client is attached; attachment is refcounted so a stream and a feed
// client can overlap.
type previewState struct {
	watchers atomic.Int64
	mu       sync.RWMutex
	latest   *Preview
}

func (p *previewState) enabled() bool {
	return p.watchers.Load() > 0
}

// SetPreviewEnabled attaches or detaches one preview consumer. Generation
// runs while any consumer remains attached.
func (a *App) SetPreviewEnabled(enabled bool) {
	if enabled {
		a.preview.watchers.Add(1)
	} else {
		a.preview.watchers.Add(-1)
	}
}

// Preview returns the latest preview snapshot, or nil if none has been
// produced yet. The snapshot is immutable.
func (a *App) Preview() *Preview {
	a.preview.mu.RLock()
	defer a.preview.mu.RUnlock()
	return a.preview.latest
}

var (
	primaryColor   = color.RGBA{G: 255}
	secondaryColor = color.RGBA{B: 255}
)

// update builds and stores a preview snapshot from the frame just
// processed. Runs on the processing goroutine.
func (p *previewState) update(frame *capture.Frame, det detector.Detection, masks *detector.Masks) {
	annotated := frame.Mat.Clone()
	defer annotated.Close()

	annotateDetection(&annotated, det.Primary, primaryColor)
	annotateDetection(&annotated, det.Secondary, secondaryColor)

	composite := compositeWithMasks(&annotated, masks)
	defer composite.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, composite)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	p.mu.Lock()
	p.latest = &Preview{
		Detection: det,
		Seq:       frame.Seq,
		Timestamp: frame.Timestamp,
		JPEG:      jpeg,
	}
	p.mu.Unlock()
}

// annotateDetection draws the marker's bounding box and centroid.
func annotateDetection(img *gocv.Mat, d detector.MarkerDetection, c color.RGBA) {
	if !d.Valid {
		return
	}

	gocv.Rectangle(img, d.Bounds, c, 2)
	gocv.Circle(img, image.Pt(int(d.Centroid.X), int(d.Centroid.Y)), 5, c, -1)
}

// compositeWithMasks lays the annotated frame and the two masks out
// horizontally, mask images converted to BGR so the strip is one Mat.
func compositeWithMasks(annotated *gocv.Mat, masks *detector.Masks) gocv.Mat {
	primaryBGR := gocv.NewMat()
	defer primaryBGR.Close()
	gocv.CvtColor(masks.Primary, &primaryBGR, gocv.ColorGrayToBGR)

	secondaryBGR := gocv.NewMat()
	defer secondaryBGR.Close()
	gocv.CvtColor(masks.Secondary, &secondaryBGR, gocv.ColorGrayToBGR)

	left := gocv.NewMat()
	defer left.Close()
	gocv.Hconcat(*annotated, primaryBGR, &left)

	composite := gocv.NewMat()
	gocv.Hconcat(left, secondaryBGR, &composite)
	return composite
}
