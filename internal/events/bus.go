// Package events provides a publish-subscribe bus for feature change events.
package events

import (
	"strings"
	"sync"

	"github.com/micro-nova/msiec-go/internal/models"
)

const subBufferSize = 32

type subscription struct {
	ch     chan models.Event
	prefix string
}

// Bus is a non-blocking publish-subscribe event bus.
// Subscribers that are slow to consume events will have events dropped rather
// than blocking publishers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]subscription
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]subscription),
	}
}

// Subscribe creates a subscription with the given ID that receives events
// for every feature whose name starts with prefix ("" for all, "cpu/" for
// the cpu group). Call Unsubscribe when done.
func (b *Bus) Subscribe(id, prefix string) <-chan models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan models.Event, subBufferSize)
	b.subs[id] = subscription{ch: ch, prefix: prefix}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(s.ch)
	}
}

// Publish sends ev to all matching subscribers.
// If a subscriber's channel is full, the event is dropped (non-blocking).
func (b *Bus) Publish(ev models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if !strings.HasPrefix(ev.Feature, s.prefix) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			// Drop if subscriber is slow
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
