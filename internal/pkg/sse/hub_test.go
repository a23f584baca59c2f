package sse

import (
	"context"
	"testing"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	ch1, cleanup1 := hub.Subscribe()
	ch2, cleanup2 := hub.Subscribe()
	defer cleanup1()
	defer cleanup2()

	assert.Equal(t, 2, hub.SubscriberCount())

	event := events.NewEntityChanged("loans", "loan-001")
	hub.Broadcast(event)

	for _, ch := range []chan events.EntityChanged{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, "loans", got.Collection)
			assert.Equal(t, "loan-001", got.EntityID)
		case <-time.After(time.Second):
			t.Fatal("expected event was not delivered")
		}
	}
}

func TestHubCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount())

	// Broadcasting with no subscribers must not panic.
	hub.Broadcast(events.NewEntityChanged("branches", "branch-001"))
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe()
	defer cleanup()

	// Fill the buffer and keep going; extra events are dropped, not queued.
	for i := 0; i < 50; i++ {
		hub.Broadcast(events.NewEntityChanged("designations", "designation-001"))
	}

	assert.Len(t, ch, cap(ch))
}

func TestHubSubscriberBridge(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe()
	defer cleanup()

	bus := events.NewBus()
	bus.Subscribe(hub.Subscriber())
	bus.Publish(context.Background(), events.NewEntityChanged("payroll_summaries", "summary-001"))

	select {
	case got := <-ch:
		assert.Equal(t, "payroll_summaries", got.Collection)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}
