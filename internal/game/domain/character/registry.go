package character

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers character commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeAdd,
		ValidatePayload: validateAddPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeRemove,
		ValidatePayload: validateRemovePayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeUpdate,
		ValidatePayload: validateUpdatePayload,
	}); err != nil {
		return err
	}
	return registry.Register(command.Definition{
		Type:            CommandTypeSetVitals,
		ValidatePayload: validateVitalsPayload,
	})
}

// RegisterEvents registers character events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeAdded,
		ValidatePayload: validateAddPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeRemoved,
		ValidatePayload: validateRemovePayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeUpdated,
		ValidatePayload: validateUpdatePayload,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type:            EventTypeVitalsSet,
		ValidatePayload: validateVitalsPayload,
	})
}

func validateAddPayload(raw json.RawMessage) error {
	var payload AddPayload
	return json.Unmarshal(raw, &payload)
}

func validateRemovePayload(raw json.RawMessage) error {
	var payload RemovePayload
	return json.Unmarshal(raw, &payload)
}

func validateUpdatePayload(raw json.RawMessage) error {
	var payload UpdatePayload
	return json.Unmarshal(raw, &payload)
}

func validateVitalsPayload(raw json.RawMessage) error {
	var payload VitalsPayload
	return json.Unmarshal(raw, &payload)
}
