package skills

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers skill commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeGrant, ValidatePayload: validateGrantPayload},
		{Type: CommandTypeRevoke, ValidatePayload: validateRevokePayload},
		{Type: CommandTypeUse, ValidatePayload: validateUsePayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers skill events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: EventTypeGranted, ValidatePayload: validateGrantedPayload},
		{Type: EventTypeRevoked, ValidatePayload: validateRevokedPayload},
		{Type: EventTypeUsed, ValidatePayload: validateUsedPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateGrantPayload(raw json.RawMessage) error {
	var payload GrantPayload
	return json.Unmarshal(raw, &payload)
}

func validateRevokePayload(raw json.RawMessage) error {
	var payload RevokePayload
	return json.Unmarshal(raw, &payload)
}

func validateUsePayload(raw json.RawMessage) error {
	var payload UsePayload
	return json.Unmarshal(raw, &payload)
}

func validateGrantedPayload(raw json.RawMessage) error {
	var payload GrantedPayload
	return json.Unmarshal(raw, &payload)
}

func validateRevokedPayload(raw json.RawMessage) error {
	var payload RevokedPayload
	return json.Unmarshal(raw, &payload)
}

func validateUsedPayload(raw json.RawMessage) error {
	var payload UsedPayload
	return json.Unmarshal(raw, &payload)
}
