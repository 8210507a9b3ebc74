package combat

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers combat commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeStart,
		ValidatePayload: validateStartPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{Type: CommandTypeNext}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{Type: CommandTypePrevious}); err != nil {
		return err
	}
	return registry.Register(command.Definition{Type: CommandTypeEnd})
}

// RegisterEvents registers combat events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeStarted,
		ValidatePayload: validateStartPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeAdvanced,
		ValidatePayload: validateTurnPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeReverted,
		ValidatePayload: validateTurnPayload,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{Type: EventTypeEnded})
}

// validateStartPayload ensures start payloads match the combat start shape.
func validateStartPayload(raw json.RawMessage) error {
	var payload StartPayload
	return json.Unmarshal(raw, &payload)
}

// validateTurnPayload ensures turn payloads match the combat turn shape.
func validateTurnPayload(raw json.RawMessage) error {
	var payload TurnPayload
	return json.Unmarshal(raw, &payload)
}
