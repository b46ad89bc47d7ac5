// Package aim is the boundary between the vision pipeline and the game
// loop: the latest published aim state plus a queue of discrete fire
// events, both readable without blocking the pipeline.
package aim

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FireQueueCapacity bounds the fire-event FIFO. The consumer polls every
// game tick, so the queue only fills if the game stalls; when it does,
// the oldest events are dropped.
const FireQueueCapacity = 32

// State is the externally visible aim value, overwritten wholesale each
// processed frame. FirePending reports whether undrained fire events are
// queued.
type State struct {
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	FirePending bool      `json:"fire_pending"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FireEvent is one occurrence of the firing gesture.
type FireEvent struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// Publisher holds the current State and the fire-event queue. Publish is
// called once per processed frame by the pipeline; Read and
// DrainFireEvents are called by the game loop at its own cadence. Reads
// never block and never observe a partially written state.
type Publisher struct {
	mu     sync.Mutex
	state  State
	events []FireEvent
}

// NewPublisher creates a publisher with aim at the given starting
// position, normally the calibrated screen center.
func NewPublisher(x, y float64) *Publisher {
	return &Publisher{
		state: State{X: x, Y: y},
	}
}

// Publish replaces the aim position and, when fired is set, enqueues one
// fire event. Events beyond FireQueueCapacity evict the oldest so the
// queue never grows unbounded.
func (p *Publisher) Publish(x, y float64, fired bool, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = State{X: x, Y: y, UpdatedAt: at}

	if fired {
		if len(p.events) >= FireQueueCapacity {
			dropped := p.events[0]
			copy(p.events, p.events[1:])
			p.events = p.events[:len(p.events)-1]
			log.Printf("fire event queue full, dropped event %s", dropped.ID)
		}
		p.events = append(p.events, FireEvent{
			ID: uuid.NewString(),
			At: at,
		})
	}
}

// Read returns a snapshot of the current aim state. FirePending is set
// while undrained fire events remain queued.
func (p *Publisher) Read() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	s.FirePending = len(p.events) > 0
	return s
}

// DrainFireEvents removes and returns all queued fire events in emission
// order. Each event is returned exactly once; a slow consumer receives
// every event the queue held, never duplicates.
func (p *Publisher) DrainFireEvents() []FireEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		return nil
	}

	out := p.events
	p.events = nil
	return out
}
