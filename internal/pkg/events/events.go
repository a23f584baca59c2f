package events

import (
	"time"

	"github.com/google/uuid"
)

const EntityChangedTopic = "hr.entity.changed.v1"

// EntityChanged is published after any committed write to a reference-data
// collection. Subscribers handle cache invalidation and broker publication so
// the write path stays decoupled from those concerns. EventID lets downstream
// consumers deduplicate redelivered events.
type EntityChanged struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Collection string    `json:"collection"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEntityChanged builds the event with a fresh event ID and the occurrence
// timestamp set.
func NewEntityChanged(collection, entityID string) EntityChanged {
	return EntityChanged{
		EventID:    uuid.New().String(),
		EventType:  "entity.changed",
		Collection: collection,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}
