package sse

import (
	"context"
	"sync"

	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
)

// Hub fans entity-change events out to connected SSE clients. Every client
// sees every change; back-office screens use this to refresh reference data
// and payroll views without polling.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan events.EntityChanged]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan events.EntityChanged]struct{}),
	}
}

// Subscribe registers a client and returns its event channel with a cleanup
// function. The channel is buffered; a client that stops reading loses
// events rather than blocking the publisher.
func (h *Hub) Subscribe() (chan events.EntityChanged, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan events.EntityChanged, 10)
	h.subscribers[ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers, ch)
		close(ch)
	}

	return ch, cleanup
}

// Broadcast delivers the event to every connected client.
func (h *Hub) Broadcast(event events.EntityChanged) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Subscriber adapts the hub to the event bus.
func (h *Hub) Subscriber() events.Subscriber {
	return func(_ context.Context, event events.EntityChanged) error {
		h.Broadcast(event)
		return nil
	}
}
