// Package protocol defines the wire channels peers use to request mutations
// and receive state.
//
// Each channel is a short name carried in every envelope. Names are capped at
// 12 bytes so they survive transports with tight topic-name limits; the cap is
// enforced at registration, never at runtime.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quest-net/questd/internal/game/domain/command"
)

// MaxChannelNameBytes is the hard limit on channel name length.
const MaxChannelNameBytes = 12

// ChannelGameState carries full snapshot broadcasts from the authority. It is
// outbound only; no actions bind to it.
const ChannelGameState ChannelName = "gameState"

var (
	// ErrChannelNameEmpty indicates a missing channel name.
	ErrChannelNameEmpty = errors.New("channel name is required")
	// ErrChannelNameTooLong indicates a channel name over the byte cap.
	ErrChannelNameTooLong = fmt.Errorf("channel name exceeds %d bytes", MaxChannelNameBytes)
	// ErrActionEmpty indicates a missing action name.
	ErrActionEmpty = errors.New("action name is required")
	// ErrActionUnknown indicates an action not bound on the channel.
	ErrActionUnknown = errors.New("action is not bound on channel")
	// ErrChannelUnknown indicates an unregistered channel.
	ErrChannelUnknown = errors.New("channel is not registered")
)

// ChannelName is a wire channel identifier.
type ChannelName string

// Validate checks the name against the byte cap. Length is measured in bytes,
// not runes.
func (n ChannelName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return ErrChannelNameEmpty
	}
	if len(n) > MaxChannelNameBytes {
		return fmt.Errorf("%w: %s", ErrChannelNameTooLong, n)
	}
	return nil
}

// Action is a verb within a channel, mapped to exactly one command type.
type Action string

// Binding maps one channel action to a command type.
type Binding struct {
	Channel ChannelName
	Action  Action
	Command command.Type
}

// Registry holds the channel/action binding table.
type Registry struct {
	bindings map[ChannelName]map[Action]command.Type
}

// NewRegistry creates an empty channel registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[ChannelName]map[Action]command.Type)}
}

// Register adds a binding, enforcing the name cap and rejecting duplicates.
func (r *Registry) Register(b Binding) error {
	if err := b.Channel.Validate(); err != nil {
		return err
	}
	b.Action = Action(strings.TrimSpace(string(b.Action)))
	if b.Action == "" {
		return ErrActionEmpty
	}
	if b.Command == "" {
		return command.ErrTypeRequired
	}
	actions, ok := r.bindings[b.Channel]
	if !ok {
		actions = make(map[Action]command.Type)
		r.bindings[b.Channel] = actions
	}
	if _, exists := actions[b.Action]; exists {
		return fmt.Errorf("action already bound: %s/%s", b.Channel, b.Action)
	}
	actions[b.Action] = b.Command
	return nil
}

// Resolve maps a channel/action pair to its command type.
func (r *Registry) Resolve(channel ChannelName, action Action) (command.Type, error) {
	actions, ok := r.bindings[channel]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrChannelUnknown, channel)
	}
	cmdType, ok := actions[Action(strings.TrimSpace(string(action)))]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrActionUnknown, channel, action)
	}
	return cmdType, nil
}

// Channels returns the registered channel names in sorted order.
func (r *Registry) Channels() []ChannelName {
	names := make([]ChannelName, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Envelope is the wire frame peers send on mutation channels and the
// authority sends on the state channel.
type Envelope struct {
	Channel   ChannelName     `json:"channel"`
	Action    Action          `json:"action,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	ActorID   string          `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Command translates an inbound envelope into a domain command. Peers are
// never trusted with authority actor status.
func (r *Registry) Command(gameID string, env Envelope) (command.Command, error) {
	cmdType, err := r.Resolve(env.Channel, env.Action)
	if err != nil {
		return command.Command{}, err
	}
	return command.Command{
		GameID:      gameID,
		Type:        cmdType,
		ActorType:   command.ActorTypePeer,
		ActorID:     env.ActorID,
		RequestID:   env.RequestID,
		PayloadJSON: env.Payload,
	}, nil
}
