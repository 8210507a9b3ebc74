package field

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the field fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeSpawned,
		EventTypeDespawned,
		EventTypeVitalsSet,
	}
}

// Fold applies a field entity event to the snapshot. Despawn leaves combat
// state untouched; the turn machine does not track individual combatants.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeSpawned:
		var payload SpawnedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("field fold %s: %w", evt.Type, err)
		}
		entity := payload.Entity
		entity.Inventory = state.CloneSlots(entity.Inventory)
		entity.Skills = state.CloneSkillRefs(entity.Skills)
		s.Field = append(state.CopyField(s.Field), entity)

	case EventTypeDespawned:
		var payload DespawnedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("field fold %s: %w", evt.Type, err)
		}
		idx, ok := s.FieldIndex(payload.InstanceID)
		if !ok {
			return s, nil
		}
		field := state.CopyField(s.Field)
		s.Field = append(field[:idx], field[idx+1:]...)

	case EventTypeVitalsSet:
		var payload VitalsSetPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("field fold %s: %w", evt.Type, err)
		}
		idx, ok := s.FieldIndex(payload.InstanceID)
		if !ok {
			return s, nil
		}
		field := state.CopyField(s.Field)
		if payload.HP != nil {
			field[idx].HP = *payload.HP
		}
		if payload.SP != nil {
			field[idx].SP = *payload.SP
		}
		s.Field = field
	}
	return s, nil
}
