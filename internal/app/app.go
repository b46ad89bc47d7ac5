// Package app wires the tracking pipeline together: frame capture, marker
// detection, smoothing, fire recognition, and the calibrated aim mapping,
// running across two goroutines joined by a latest-wins mailbox.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/silentbyte/quackhunt/internal/aim"
	"github.com/silentbyte/quackhunt/internal/calib"
	"github.com/silentbyte/quackhunt/internal/capture"
	"github.com/silentbyte/quackhunt/internal/gesture"
	"github.com/silentbyte/quackhunt/internal/track"
)

// takeTimeout is how long the processing goroutine waits for a frame
// before giving up for this round. On timeout the last published aim
// state simply stands.
const takeTimeout = 100 * time.Millisecond

// Config holds construction options for the App.
type Config struct {
	Camera  capture.Camera
	Profile calib.Profile
	Fire    gesture.FireConfig

	// Responsiveness is the track smoothing constant; zero selects
	// track.DefaultResponsiveness.
	Responsiveness float64
}

// App owns the pipeline and its lifetime. The game loop talks to it only
// through Publisher(); the calibration tool through SetProfile() and
// Preview().
type App struct {
	camera    capture.Camera
	profiles  *calib.Holder
	publisher *aim.Publisher
	mailbox   *Mailbox

	// Pipeline state below is owned by the processing goroutine.
	primaryTrack   *track.State
	secondaryTrack *track.State
	fireDet        *gesture.FireDetector
	mapper         *calib.Mapper

	preview previewState

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates an App. The camera is not opened until Start.
func New(cfg Config) *App {
	return &App{
		camera:         cfg.Camera,
		profiles:       calib.NewHolder(cfg.Profile),
		publisher:      aim.NewPublisher(cfg.Profile.Nudge.X, cfg.Profile.Nudge.Y),
		mailbox:        NewMailbox(),
		primaryTrack:   track.New(cfg.Responsiveness),
		secondaryTrack: track.New(cfg.Responsiveness),
		fireDet:        gesture.NewFireDetector(cfg.Fire),
		mapper:         calib.NewMapper(),
	}
}

// Publisher returns the aim-state boundary object the game polls.
func (a *App) Publisher() *aim.Publisher {
	return a.publisher
}

// Profile returns the live calibration profile snapshot.
func (a *App) Profile() *calib.Profile {
	return a.profiles.Load()
}

// SetProfile atomically replaces the live calibration profile. Takes
// effect starting with the next processed frame.
func (a *App) SetProfile(p calib.Profile) {
	a.profiles.Swap(p)
}

// Start opens the camera and launches the capture and processing
// goroutines. A camera that cannot be opened is a startup failure.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.captureLoop()
	go a.processLoop()

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts both goroutines and releases the camera. The processing
// goroutine finishes its in-flight frame before exiting; no frame is
// force-terminated mid-pipeline.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return
	}

	close(a.stopCh)
	a.wg.Wait()
	a.stopCh = nil
	a.mailbox.Drain()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Tracking pipeline stopped")
}
