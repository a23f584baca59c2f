package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []string
	bus.Subscribe(func(ctx context.Context, e EntityChanged) error {
		first = append(first, e.Collection)
		return nil
	})
	bus.Subscribe(func(ctx context.Context, e EntityChanged) error {
		second = append(second, e.EntityID)
		return nil
	})

	bus.Publish(context.Background(), NewEntityChanged("designations", "d-1"))

	assert.Equal(t, []string{"designations"}, first)
	assert.Equal(t, []string{"d-1"}, second)
}

func TestBus_SubscriberErrorDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(func(ctx context.Context, e EntityChanged) error {
		return errors.New("broker unavailable")
	})

	var delivered bool
	bus.Subscribe(func(ctx context.Context, e EntityChanged) error {
		delivered = true
		return nil
	})

	bus.Publish(context.Background(), NewEntityChanged("branches", "b-1"))
	assert.True(t, delivered)
}
