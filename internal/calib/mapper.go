package calib

import (
	"github.com/silentbyte/quackhunt/internal/detector"
)

// Mapper converts the smoothed fingertip position from camera space into
// screen coordinates. The transform is anchored at a moving origin, the
// smoothed hand-base position, so aim is a function of hand displacement
// rather than absolute position in the camera's view:
//
//	screen.x = (primary.x - origin.x) * stretch.x + nudge.x
//	screen.y = (primary.y - origin.y) * stretch.y + nudge.y
//
// Stretch and Nudge are free per-axis parameters set by calibration; the
// transform is deliberately affine rather than a full homography, trading
// geometric fidelity for four live-tunable values.
type Mapper struct {
	origin    detector.Point
	hasOrigin bool
}

// NewMapper creates a mapper with no established origin.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map produces the screen-space aim position for one frame. The origin
// updates whenever the hand-base track has an established position and is
// otherwise carried over from the last frame that had one. Until both an
// origin and a fingertip position exist, aim rests at Nudge (the
// calibrated screen center), never at an undefined value.
func (m *Mapper) Map(primary detector.Point, primaryOK bool, secondary detector.Point, secondaryOK bool, p *Profile) Vec2 {
	if secondaryOK {
		m.origin = secondary
		m.hasOrigin = true
	}

	if !m.hasOrigin || !primaryOK {
		return p.Nudge
	}

	return Vec2{
		X: (primary.X-m.origin.X)*p.Stretch.X + p.Nudge.X,
		Y: (primary.Y-m.origin.Y)*p.Stretch.Y + p.Nudge.Y,
	}
}
