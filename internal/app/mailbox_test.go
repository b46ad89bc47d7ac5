package app

import (
	"testing"
	"time"

	"github.com/silentbyte/quackhunt/internal/capture"
)

// frames here carry no Mat; the mailbox only moves pointers.
func seqFrame(seq uint64) *capture.Frame {
	return &capture.Frame{Seq: seq, Timestamp: time.Now()}
}

func TestMailbox_DeliversFrame(t *testing.T) {
	m := NewMailbox()
	stop := make(chan struct{})

	m.Put(seqFrame(1))

	f := m.Take(time.Second, stop)
	if f == nil {
		t.Fatal("expected a frame")
	}
	if f.Seq != 1 {
		t.Errorf("seq = %d, want 1", f.Seq)
	}
}

func TestMailbox_LatestWins(t *testing.T) {
	m := NewMailbox()
	stop := make(chan struct{})

	// The processor stalls while capture keeps producing: only the most
	// recent frame may survive.
	for seq := uint64(1); seq <= 10; seq++ {
		m.Put(seqFrame(seq))
	}

	f := m.Take(time.Second, stop)
	if f == nil {
		t.Fatal("expected a frame")
	}
	if f.Seq != 10 {
		t.Errorf("seq = %d, want the newest frame 10", f.Seq)
	}

	// Nothing else is retained.
	if extra := m.Take(10*time.Millisecond, stop); extra != nil {
		t.Errorf("mailbox retained frame %d, want empty", extra.Seq)
	}
}

func TestMailbox_TakeTimesOut(t *testing.T) {
	m := NewMailbox()
	stop := make(chan struct{})

	start := time.Now()
	f := m.Take(20*time.Millisecond, stop)
	if f != nil {
		t.Fatal("expected nil on timeout")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Take returned after %v, before the timeout", elapsed)
	}
}

func TestMailbox_TakeUnblocksOnStop(t *testing.T) {
	m := NewMailbox()
	stop := make(chan struct{})
	close(stop)

	start := time.Now()
	if f := m.Take(5*time.Second, stop); f != nil {
		t.Fatal("expected nil when stopped")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Take blocked %v after stop", elapsed)
	}
}

func TestMailbox_PreservesCaptureOrder(t *testing.T) {
	m := NewMailbox()
	stop := make(chan struct{})

	var last uint64
	for seq := uint64(1); seq <= 100; seq++ {
		m.Put(seqFrame(seq))
		if seq%3 != 0 {
			continue
		}
		f := m.Take(time.Second, stop)
		if f == nil {
			t.Fatal("expected a frame")
		}
		if f.Seq <= last {
			t.Fatalf("frame %d delivered after %d: reordered", f.Seq, last)
		}
		last = f.Seq
	}
}

func TestMailbox_Drain(t *testing.T) {
	m := NewMailbox()
	stop := make(chan struct{})

	m.Put(seqFrame(1))
	m.Drain()

	if f := m.Take(10*time.Millisecond, stop); f != nil {
		t.Errorf("mailbox retained frame %d after Drain", f.Seq)
	}

	// Draining an empty mailbox is a no-op.
	m.Drain()
}
