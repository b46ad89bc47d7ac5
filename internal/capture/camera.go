// Package capture provides camera frame acquisition using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Frame is a single captured video frame. The Mat is owned by whichever
// pipeline stage currently holds the Frame; Close releases it exactly once.
type Frame struct {
	Mat       *gocv.Mat
	Timestamp time.Time
	Seq       uint64

	closeOnce sync.Once
}

// Close releases the underlying Mat. Safe to call more than once.
func (f *Frame) Close() {
	f.closeOnce.Do(func() {
		if f.Mat != nil {
			f.Mat.Close()
		}
	})
}

// Options configures how frames are acquired from the device.
type Options struct {
	DeviceID         int
	FlipVertically   bool
	FlipHorizontally bool
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*Frame, error)
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	opts    Options
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	seq     uint64
}

// NewCamera creates a new Camera with the given options.
func NewCamera(opts Options) Camera {
	return &cameraImpl{opts: opts}
}

// Open opens the camera for capturing frames.
// It sets the resolution to 640x480 for performance.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.opts.DeviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases the device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera, applying the configured
// flips. The caller is responsible for closing the returned Frame.
func (c *cameraImpl) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	if c.opts.FlipVertically {
		gocv.Flip(mat, &mat, 0)
	}
	if c.opts.FlipHorizontally {
		gocv.Flip(mat, &mat, 1)
	}

	c.seq++
	return &Frame{
		Mat:       &mat,
		Timestamp: time.Now(),
		Seq:       c.seq,
	}, nil
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
