package combat

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the combat fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeStarted,
		EventTypeAdvanced,
		EventTypeReverted,
		EventTypeEnded,
	}
}

// Fold applies a combat event to the snapshot. Ending combat resets the
// machine to its zero value so a later start carries no residue.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeStarted:
		var payload StartPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("combat fold %s: %w", evt.Type, err)
		}
		s.Combat = state.CombatState{
			Active:     true,
			Turn:       1,
			Initiative: state.Side(payload.Side),
		}
	case EventTypeAdvanced, EventTypeReverted:
		var payload TurnPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("combat fold %s: %w", evt.Type, err)
		}
		combat := s.Combat
		combat.Turn = payload.Turn
		if combat.Turn < 1 {
			combat.Turn = 1
		}
		s.Combat = combat
	case EventTypeEnded:
		s.Combat = state.CombatState{}
	}
	return s, nil
}
