package app

import (
	"time"

	"github.com/silentbyte/quackhunt/internal/capture"
)

// Mailbox is the single-slot, latest-wins frame handoff between the
// capture and processing goroutines. When the processing side falls
// behind, putting a new frame displaces and releases the undelivered one
// instead of queueing it: a stale frame would produce a stale aim
// position, which is worse than a dropped frame. Delivery is never
// reordered, so frames reach the processor in capture order.
type Mailbox struct {
	ch chan *capture.Frame
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan *capture.Frame, 1)}
}

// Put deposits a frame, displacing and closing any older undelivered
// frame. Never blocks.
func (m *Mailbox) Put(f *capture.Frame) {
	for {
		select {
		case m.ch <- f:
			return
		default:
			select {
			case old := <-m.ch:
				old.Close()
			default:
			}
		}
	}
}

// Take waits up to timeout for a frame. Returns nil on timeout or when
// stop closes first, letting the caller keep the last aim state standing
// through a camera stall.
func (m *Mailbox) Take(timeout time.Duration, stop <-chan struct{}) *capture.Frame {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case f := <-m.ch:
		return f
	case <-timer.C:
		return nil
	case <-stop:
		return nil
	}
}

// Drain closes any frame still held. Called once after both goroutines
// have stopped.
func (m *Mailbox) Drain() {
	select {
	case f := <-m.ch:
		f.Close()
	default:
	}
}
