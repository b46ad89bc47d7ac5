// Package gesture recognizes the firing gesture from fingertip motion.
//
// The trigger motion is a single rapid upward flick of the fingertip
// marker, mimicking the recoil of a finger gun. Recognition is a small
// state machine over the marker's vertical velocity rather than template
// matching: the gesture has exactly one degree of freedom that matters.
package gesture

import (
	"time"
)

// FireState is the recognizer's current phase.
type FireState int

const (
	// Idle means no gesture is in progress.
	Idle FireState = iota
	// Armed means the upward-velocity condition has been met and a fire
	// event is about to be emitted.
	Armed
	// Cooldown means a fire was just emitted and all input is ignored
	// until the cooldown deadline passes.
	Cooldown
)

// String returns the state name for logging.
func (s FireState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// FireConfig tunes the fire-gesture recognizer.
type FireConfig struct {
	// UpwardThreshold is the minimum upward speed in pixels per second.
	// Upward motion has negative Y velocity in screen convention; the
	// threshold is compared against the magnitude.
	UpwardThreshold float64

	// MinSamples is the number of consecutive qualifying velocity samples
	// required before firing. Guards against single-sample noise.
	MinSamples int

	// Cooldown is how long input is ignored after a fire, preventing one
	// extended motion from registering multiple shots.
	Cooldown time.Duration
}

// DefaultFireConfig returns the tuning used by the game.
func DefaultFireConfig() FireConfig {
	return FireConfig{
		UpwardThreshold: 900,
		MinSamples:      2,
		Cooldown:        300 * time.Millisecond,
	}
}

// FireDetector emits exactly one fire event per flick gesture.
// It is owned by the processing goroutine and is not safe for concurrent use.
type FireDetector struct {
	cfg      FireConfig
	state    FireState
	streak   int
	deadline time.Time
}

// NewFireDetector creates a detector with the given tuning. Zero or
// negative fields fall back to the defaults.
func NewFireDetector(cfg FireConfig) *FireDetector {
	def := DefaultFireConfig()
	if cfg.UpwardThreshold <= 0 {
		cfg.UpwardThreshold = def.UpwardThreshold
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = def.MinSamples
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &FireDetector{cfg: cfg}
}

// State returns the recognizer's current phase.
func (d *FireDetector) State() FireState {
	return d.state
}

// Observe feeds one vertical-velocity sample and reports whether a fire
// event was emitted for it.
//
// While counting toward MinSamples, an invalid marker detection neither
// resets the streak (it is noise, not a gesture abort) nor counts toward
// it. A valid sample below the threshold resets the streak. During
// Cooldown every sample is ignored until the deadline, after which the
// current sample is evaluated normally.
func (d *FireDetector) Observe(vy float64, valid bool, now time.Time) bool {
	if d.state == Cooldown {
		if now.Before(d.deadline) {
			return false
		}
		d.state = Idle
		d.streak = 0
	}

	if !valid {
		return false
	}

	if -vy > d.cfg.UpwardThreshold {
		d.streak++
	} else {
		d.streak = 0
	}

	if d.streak >= d.cfg.MinSamples {
		d.state = Armed
		d.fire(now)
		return true
	}

	return false
}

// fire transitions Armed -> Cooldown, consuming the arm.
func (d *FireDetector) fire(now time.Time) {
	d.state = Cooldown
	d.streak = 0
	d.deadline = now.Add(d.cfg.Cooldown)
}
