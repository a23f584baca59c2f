package events

import (
	"context"
	"log/slog"
	"sync"
)

// Subscriber consumes a published EntityChanged event. Subscriber errors are
// logged, not propagated: the write that triggered the event has already
// committed.
type Subscriber func(ctx context.Context, event EntityChanged) error

// Bus is a synchronous in-process event dispatcher.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

func (b *Bus) Publish(ctx context.Context, event EntityChanged) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s(ctx, event); err != nil {
			slog.Error("event subscriber failed",
				"collection", event.Collection,
				"entity_id", event.EntityID,
				"error", err,
			)
		}
	}
}
