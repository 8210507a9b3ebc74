package catalog

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers catalog editor commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeItemUpsert, ValidatePayload: validateItemUpsertPayload},
		{Type: CommandTypeItemDelete, ValidatePayload: validateDeletePayload},
		{Type: CommandTypeSkillUpsert, ValidatePayload: validateSkillUpsertPayload},
		{Type: CommandTypeSkillDelete, ValidatePayload: validateDeletePayload},
		{Type: CommandTypeEntityUpsert, ValidatePayload: validateEntityUpsertPayload},
		{Type: CommandTypeEntityDelete, ValidatePayload: validateDeletePayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers catalog editor events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: EventTypeItemUpserted, ValidatePayload: validateItemUpsertPayload},
		{Type: EventTypeItemDeleted, ValidatePayload: validateDeletePayload},
		{Type: EventTypeSkillUpserted, ValidatePayload: validateSkillUpsertPayload},
		{Type: EventTypeSkillDeleted, ValidatePayload: validateDeletePayload},
		{Type: EventTypeEntityUpserted, ValidatePayload: validateEntityUpsertPayload},
		{Type: EventTypeEntityDeleted, ValidatePayload: validateDeletePayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateItemUpsertPayload(raw json.RawMessage) error {
	var payload ItemUpsertPayload
	return json.Unmarshal(raw, &payload)
}

func validateSkillUpsertPayload(raw json.RawMessage) error {
	var payload SkillUpsertPayload
	return json.Unmarshal(raw, &payload)
}

func validateEntityUpsertPayload(raw json.RawMessage) error {
	var payload EntityUpsertPayload
	return json.Unmarshal(raw, &payload)
}

func validateDeletePayload(raw json.RawMessage) error {
	var payload DeletePayload
	return json.Unmarshal(raw, &payload)
}
