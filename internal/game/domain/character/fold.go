package character

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the character fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeAdded,
		EventTypeRemoved,
		EventTypeUpdated,
		EventTypeVitalsSet,
	}
}

// Fold applies a character event to the snapshot, copying the party slice
// along the touched path.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeAdded:
		var payload AddPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("character fold %s: %w", evt.Type, err)
		}
		party := state.CopyParty(s.Party)
		party = append(party, state.Character{
			ID:          payload.CharacterID,
			Name:        payload.Name,
			Description: payload.Description,
			Image:       payload.Image,
			HP:          payload.MaxHP,
			MaxHP:       payload.MaxHP,
			SP:          payload.MaxSP,
			MaxSP:       payload.MaxSP,
		})
		s.Party = party

	case EventTypeRemoved:
		var payload RemovePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("character fold %s: %w", evt.Type, err)
		}
		idx, ok := s.CharacterIndex(payload.CharacterID)
		if !ok {
			return s, nil
		}
		party := state.CopyParty(s.Party)
		s.Party = append(party[:idx], party[idx+1:]...)

	case EventTypeUpdated:
		var payload UpdatePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("character fold %s: %w", evt.Type, err)
		}
		idx, ok := s.CharacterIndex(payload.CharacterID)
		if !ok {
			return s, nil
		}
		party := state.CopyParty(s.Party)
		ch := party[idx]
		if name, ok := payload.Fields["name"]; ok {
			ch.Name = name
		}
		if description, ok := payload.Fields["description"]; ok {
			ch.Description = description
		}
		if image, ok := payload.Fields["image"]; ok {
			ch.Image = image
		}
		party[idx] = ch
		s.Party = party

	case EventTypeVitalsSet:
		var payload VitalsPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("character fold %s: %w", evt.Type, err)
		}
		idx, ok := s.CharacterIndex(payload.CharacterID)
		if !ok {
			return s, nil
		}
		party := state.CopyParty(s.Party)
		ch := party[idx]
		if payload.HP != nil {
			ch.HP = *payload.HP
		}
		if payload.SP != nil {
			ch.SP = *payload.SP
		}
		party[idx] = ch
		s.Party = party
	}
	return s, nil
}
