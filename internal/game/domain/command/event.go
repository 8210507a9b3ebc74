package command

import (
	"time"

	"github.com/quest-net/questd/internal/game/domain/event"
)

// NewEvent builds an event from an accepted command, carrying actor and
// request correlation through to the journal.
func NewEvent(cmd Command, eventType event.Type, entityType, entityID string, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		GameID:      cmd.GameID,
		Type:        eventType,
		Timestamp:   now,
		ActorType:   event.ActorType(cmd.ActorType),
		ActorID:     cmd.ActorID,
		RequestID:   cmd.RequestID,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadJSON: payloadJSON,
	}
}
