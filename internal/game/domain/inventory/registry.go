package inventory

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers inventory commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeEquip, ValidatePayload: validateEquipPayload},
		{Type: CommandTypeUnequip, ValidatePayload: validateUnequipPayload},
		{Type: CommandTypeUse, ValidatePayload: validateUsePayload},
		{Type: CommandTypeGive, ValidatePayload: validateGivePayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers inventory events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: EventTypeEquipped, ValidatePayload: validateEquippedPayload},
		{Type: EventTypeUnequipped, ValidatePayload: validateUnequippedPayload},
		{Type: EventTypeUsed, ValidatePayload: validateUsedPayload},
		{Type: EventTypeGiven, ValidatePayload: validateGivenPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateEquipPayload(raw json.RawMessage) error {
	var payload EquipPayload
	return json.Unmarshal(raw, &payload)
}

func validateUnequipPayload(raw json.RawMessage) error {
	var payload UnequipPayload
	return json.Unmarshal(raw, &payload)
}

func validateUsePayload(raw json.RawMessage) error {
	var payload UsePayload
	return json.Unmarshal(raw, &payload)
}

func validateGivePayload(raw json.RawMessage) error {
	var payload GivePayload
	return json.Unmarshal(raw, &payload)
}

func validateEquippedPayload(raw json.RawMessage) error {
	var payload EquippedPayload
	return json.Unmarshal(raw, &payload)
}

func validateUnequippedPayload(raw json.RawMessage) error {
	var payload UnequippedPayload
	return json.Unmarshal(raw, &payload)
}

func validateUsedPayload(raw json.RawMessage) error {
	var payload UsedPayload
	return json.Unmarshal(raw, &payload)
}

func validateGivenPayload(raw json.RawMessage) error {
	var payload GivenPayload
	return json.Unmarshal(raw, &payload)
}
