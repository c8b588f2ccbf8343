package run

import (
	"sync"

	"refactorengine/internal/types"
)

// Notification is published on every state transition.
type Notification struct {
	State       types.RunState `json:"state"`
	OutputCount int            `json:"outputCount"`
	Summary     string         `json:"summary,omitempty"`
}

// EventBroker fans transitions out to subscribers. Slow subscribers miss
// notifications rather than blocking the controller.
type EventBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Notification
}

// NewEventBroker creates a new event broker.
func NewEventBroker() *EventBroker {
	return &EventBroker{subs: make(map[int]chan Notification)}
}

// Subscribe registers a channel with the given buffer. The returned func
// unsubscribes and closes the channel.
func (b *EventBroker) Subscribe(size int) (<-chan Notification, func()) {
	if size <= 0 {
		size = 1
	}
	ch := make(chan Notification, size)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers n to every subscriber without blocking.
func (b *EventBroker) Publish(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
}
