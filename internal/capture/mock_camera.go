package capture

import (
	"fmt"
	"sync"
	"time"
)

// MockCamera plays back pre-built frames for testing.
type MockCamera struct {
	frames  []*Frame
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
	seq     uint64
}

func NewMockCamera(frames []*Frame, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	src := c.frames[c.index]
	c.index++
	c.seq++

	// Clone the Mat so the original isn't consumed by the pipeline.
	frame := &Frame{
		Timestamp: time.Now(),
		Seq:       c.seq,
	}
	if src.Mat != nil {
		clone := src.Mat.Clone()
		frame.Mat = &clone
	}

	return frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence.
func (c *MockCamera) SetFrames(frames []*Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
