// Package track maintains short per-marker position history and derives a
// smoothed position and an instantaneous velocity from it.
package track

import (
	"time"

	"github.com/silentbyte/quackhunt/internal/detector"
)

// HistorySize is the fixed capacity of a marker's sample ring buffer.
const HistorySize = 16

// DefaultResponsiveness is the smoothing rate constant k in
// smoothed = lerp(smoothed, raw, k*dt). Higher values track the raw
// position more aggressively.
const DefaultResponsiveness = 10.0

// Sample is one raw observation of a marker.
type Sample struct {
	Pos detector.Point
	At  time.Time
}

// State is the per-marker track: a bounded history of raw samples plus the
// smoothed position derived from them. Invalid detections freeze the state
// entirely, so a missed frame never moves the marker.
type State struct {
	samples [HistorySize]Sample
	count   int
	head    int

	smoothed    detector.Point
	established bool
	lastUpdate  time.Time

	responsiveness float64
}

// New creates a track with the given responsiveness constant.
// Values <= 0 fall back to DefaultResponsiveness.
func New(responsiveness float64) *State {
	if responsiveness <= 0 {
		responsiveness = DefaultResponsiveness
	}
	return &State{responsiveness: responsiveness}
}

// Observe feeds one detection for this marker. Valid detections are pushed
// into the ring buffer (evicting the oldest sample when full) and pull the
// smoothed position toward the raw centroid at a rate scaled by elapsed
// time, making the smoothing frame-rate independent. Invalid detections
// are dropped without touching history or the smoothed position.
func (s *State) Observe(d detector.MarkerDetection, now time.Time) {
	if !d.Valid {
		return
	}

	s.samples[s.head] = Sample{Pos: d.Centroid, At: now}
	s.head = (s.head + 1) % HistorySize
	if s.count < HistorySize {
		s.count++
	}

	if !s.established {
		s.smoothed = d.Centroid
		s.established = true
		s.lastUpdate = now
		return
	}

	dt := now.Sub(s.lastUpdate).Seconds()
	s.lastUpdate = now
	if dt <= 0 {
		return
	}

	alpha := s.responsiveness * dt
	if alpha > 1 {
		alpha = 1
	}

	s.smoothed.X += (d.Centroid.X - s.smoothed.X) * alpha
	s.smoothed.Y += (d.Centroid.Y - s.smoothed.Y) * alpha
}

// Position returns the smoothed position and whether any valid detection
// has ever been observed.
func (s *State) Position() (detector.Point, bool) {
	return s.smoothed, s.established
}

// Velocity estimates the marker's velocity in pixels per second from the
// two most recent samples. It reports false until two samples with
// distinct timestamps exist.
func (s *State) Velocity() (detector.Point, bool) {
	if s.count < 2 {
		return detector.Point{}, false
	}

	newest := s.samples[(s.head+HistorySize-1)%HistorySize]
	prev := s.samples[(s.head+HistorySize-2)%HistorySize]

	dt := newest.At.Sub(prev.At).Seconds()
	if dt <= 0 {
		return detector.Point{}, false
	}

	return detector.Point{
		X: (newest.Pos.X - prev.Pos.X) / dt,
		Y: (newest.Pos.Y - prev.Pos.Y) / dt,
	}, true
}
