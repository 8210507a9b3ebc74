// Package event defines the immutable journal record emitted by accepted commands.
package event

import (
	"strings"
	"time"
)

// Type identifies the kind of event.
type Type string

// ActorType identifies who or what triggered an event.
type ActorType string

const (
	// ActorTypeAuthority indicates the event was triggered by the authority peer.
	ActorTypeAuthority ActorType = "authority"
	// ActorTypePeer indicates the event was triggered by a non-authority peer.
	ActorTypePeer ActorType = "peer"
)

// Event represents an immutable event in the session journal.
//
// Events are facts that have occurred, never requests. The journal is the
// conceptual append-only request log; folding it in order reproduces the
// canonical snapshot.
type Event struct {
	// GameID is the game this event belongs to.
	GameID string
	// Seq is the event sequence number within the game (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorType identifies who triggered the event.
	ActorType ActorType
	// ActorID is the peer id when ActorType is peer.
	ActorID string
	// RequestID correlates the event with the request that produced it.
	RequestID string
	// EntityType is the type of entity affected (character, item, combat, etc.).
	EntityType string
	// EntityID is the ID of the entity affected.
	EntityID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "inventory", "combat").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
