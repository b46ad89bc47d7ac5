package app

import (
	"log"
	"time"

	"github.com/silentbyte/quackhunt/internal/capture"
	"github.com/silentbyte/quackhunt/internal/detector"
)

// captureLoop continuously pulls frames from the camera and deposits them
// in the mailbox. Read errors after startup are logged and retried; the
// aim state is frozen at its last value until frames resume.
func (a *App) captureLoop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			select {
			case <-a.stopCh:
				return
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		a.mailbox.Put(frame)
	}
}

// processLoop runs the full segmentation-to-mapping pipeline on each frame
// taken from the mailbox, in capture order.
func (a *App) processLoop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		frame := a.mailbox.Take(takeTimeout, a.stopCh)
		if frame == nil {
			continue
		}

		a.process(frame)
		frame.Close()
	}
}

// process handles one frame: detect both markers, advance the tracks,
// run fire recognition on the fingertip's vertical velocity, map to
// screen coordinates, publish. The profile pointer is loaded once so the
// whole frame works against a single calibration snapshot.
func (a *App) process(frame *capture.Frame) {
	profile := a.profiles.Load()

	var det detector.Detection
	if a.preview.enabled() {
		var masks detector.Masks
		det, masks = detector.DetectWithMasks(frame.Mat, profile.Primary, profile.Secondary)
		a.preview.update(frame, det, &masks)
		masks.Close()
	} else {
		det = detector.Detect(frame.Mat, profile.Primary, profile.Secondary)
	}

	now := frame.Timestamp
	a.primaryTrack.Observe(det.Primary, now)
	a.secondaryTrack.Observe(det.Secondary, now)

	vel, velOK := a.primaryTrack.Velocity()
	fired := a.fireDet.Observe(vel.Y, velOK && det.Primary.Valid, now)

	primaryPos, primaryOK := a.primaryTrack.Position()
	secondaryPos, secondaryOK := a.secondaryTrack.Position()
	screen := a.mapper.Map(primaryPos, primaryOK, secondaryPos, secondaryOK, profile)

	a.publisher.Publish(screen.X, screen.Y, fired, now)
}
