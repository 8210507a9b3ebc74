package field

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers field entity commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeSpawn, ValidatePayload: validateSpawnPayload},
		{Type: CommandTypeDespawn, ValidatePayload: validateDespawnPayload},
		{Type: CommandTypeSetVitals, ValidatePayload: validateVitalsPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers field entity events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: EventTypeSpawned, ValidatePayload: validateSpawnedPayload},
		{Type: EventTypeDespawned, ValidatePayload: validateDespawnedPayload},
		{Type: EventTypeVitalsSet, ValidatePayload: validateVitalsSetPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateSpawnPayload(raw json.RawMessage) error {
	var payload SpawnPayload
	return json.Unmarshal(raw, &payload)
}

func validateDespawnPayload(raw json.RawMessage) error {
	var payload DespawnPayload
	return json.Unmarshal(raw, &payload)
}

func validateVitalsPayload(raw json.RawMessage) error {
	var payload VitalsPayload
	return json.Unmarshal(raw, &payload)
}

func validateSpawnedPayload(raw json.RawMessage) error {
	var payload SpawnedPayload
	return json.Unmarshal(raw, &payload)
}

func validateDespawnedPayload(raw json.RawMessage) error {
	var payload DespawnedPayload
	return json.Unmarshal(raw, &payload)
}

func validateVitalsSetPayload(raw json.RawMessage) error {
	var payload VitalsSetPayload
	return json.Unmarshal(raw, &payload)
}
