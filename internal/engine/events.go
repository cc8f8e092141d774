package engine

import (
	"sync"

	"github.com/digitalabcs/textdecoder/internal/models"
)

// EventKind classifies a change notification.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event describes one durable change to a conversation. Events are emitted
// only after the corresponding record write has completed, so a subscriber
// re-reading the store always observes the state the event announced.
type Event struct {
	Kind           EventKind
	ConversationID string
	Status         models.ConversationStatus
}

// Notifier fans change events out to subscribers. It replaces any ambient
// shared observable state: hosts subscribe explicitly and drop the
// subscription when done.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release the subscription; the channel is closed on cancel.
func (n *Notifier) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = ch
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish delivers an event to every subscriber without blocking. A slow
// subscriber with a full buffer misses the event; it can always re-read
// the store.
func (n *Notifier) publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
