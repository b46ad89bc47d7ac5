// Package calib holds the calibration profile and the camera-to-screen
// coordinate mapping derived from it.
package calib

import (
	"sync/atomic"

	"github.com/silentbyte/quackhunt/internal/detector"
)

// Vec2 is a per-axis parameter pair.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Profile is the complete set of user-calibrated parameters: one color
// threshold per marker plus the per-axis affine transform. Profiles are
// immutable snapshots; calibration replaces the whole profile rather than
// mutating fields so the pipeline never observes a half-updated state.
type Profile struct {
	Primary   detector.ColorThreshold `json:"primary"`
	Secondary detector.ColorThreshold `json:"secondary"`
	Stretch   Vec2                    `json:"stretch"`
	Nudge     Vec2                    `json:"nudge"`
}

// DefaultProfile returns the built-in calibration: a green fingertip
// marker, a blue hand-base marker, and a transform that maps a centered
// hand to the center of a 1920x1080 display.
func DefaultProfile() Profile {
	return Profile{
		Primary: detector.ColorThreshold{
			Lower:         detector.HSV{H: 55, S: 20, V: 20},
			Upper:         detector.HSV{H: 70, S: 255, V: 255},
			MinConfidence: 0.001,
		},
		Secondary: detector.ColorThreshold{
			Lower:         detector.HSV{H: 110, S: 100, V: 20},
			Upper:         detector.HSV{H: 126, S: 240, V: 240},
			MinConfidence: 0.001,
		},
		Stretch: Vec2{X: 6.0, Y: 6.0},
		Nudge:   Vec2{X: 960, Y: 540},
	}
}

// Holder publishes the live profile to the pipeline. Swapping is an atomic
// whole-pointer replacement: a frame that loads the profile once works
// against a consistent snapshot even while the calibration tool saves.
type Holder struct {
	p atomic.Pointer[Profile]
}

// NewHolder creates a holder seeded with the given profile.
func NewHolder(p Profile) *Holder {
	h := &Holder{}
	h.Swap(p)
	return h
}

// Load returns the current profile snapshot. The returned pointer is
// shared and must be treated as read-only.
func (h *Holder) Load() *Profile {
	return h.p.Load()
}

// Swap replaces the live profile. Takes effect starting with the next
// frame that loads it.
func (h *Holder) Swap(p Profile) {
	h.p.Store(&p)
}
