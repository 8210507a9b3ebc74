package character

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

const (
	CommandTypeAdd       command.Type = "character.add"
	CommandTypeRemove    command.Type = "character.remove"
	CommandTypeUpdate    command.Type = "character.update"
	CommandTypeSetVitals command.Type = "character.set_vitals"
	EventTypeAdded       event.Type   = "character.added"
	EventTypeRemoved     event.Type   = "character.removed"
	EventTypeUpdated     event.Type   = "character.updated"
	EventTypeVitalsSet   event.Type   = "character.vitals_set"

	rejectionCodeCharacterAlreadyExists      = "CHARACTER_ALREADY_EXISTS"
	rejectionCodeCharacterIDRequired         = "CHARACTER_ID_REQUIRED"
	rejectionCodeCharacterNameEmpty          = "CHARACTER_NAME_EMPTY"
	rejectionCodeCharacterNotFound           = "CHARACTER_NOT_FOUND"
	rejectionCodeCharacterUpdateEmpty        = "CHARACTER_UPDATE_EMPTY"
	rejectionCodeCharacterUpdateFieldInvalid = "CHARACTER_UPDATE_FIELD_INVALID"
	rejectionCodeCharacterVitalsEmpty        = "CHARACTER_VITALS_EMPTY"
)

// Decide returns the decision for a character command against the current snapshot.
func Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeAdd:
		var payload AddPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		characterID := strings.TrimSpace(payload.CharacterID)
		if characterID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterIDRequired,
				Message: "character id is required",
			})
		}
		if _, exists := s.CharacterIndex(characterID); exists {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterAlreadyExists,
				Message: fmt.Sprintf("character %s already exists", characterID),
			})
		}
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterNameEmpty,
				Message: "character name is required",
			})
		}
		maxHP := payload.MaxHP
		if maxHP < 0 {
			maxHP = 0
		}
		maxSP := payload.MaxSP
		if maxSP < 0 {
			maxSP = 0
		}

		normalized := AddPayload{
			CharacterID: characterID,
			Name:        name,
			Description: strings.TrimSpace(payload.Description),
			Image:       strings.TrimSpace(payload.Image),
			MaxHP:       maxHP,
			MaxSP:       maxSP,
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeAdded, "character", characterID, payloadJSON, now().UTC()))

	case CommandTypeRemove:
		var payload RemovePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		characterID := strings.TrimSpace(payload.CharacterID)
		if _, ok := s.CharacterIndex(characterID); !ok {
			return rejectNotFound(characterID)
		}
		payloadJSON, _ := json.Marshal(RemovePayload{CharacterID: characterID})
		return command.Accept(command.NewEvent(cmd, EventTypeRemoved, "character", characterID, payloadJSON, now().UTC()))

	case CommandTypeUpdate:
		var payload UpdatePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		characterID := strings.TrimSpace(payload.CharacterID)
		if _, ok := s.CharacterIndex(characterID); !ok {
			return rejectNotFound(characterID)
		}
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterUpdateEmpty,
				Message: "no fields to update",
			})
		}
		fields := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "name", "description", "image":
				fields[key] = strings.TrimSpace(value)
			default:
				return command.Reject(command.Rejection{
					Code:    rejectionCodeCharacterUpdateFieldInvalid,
					Message: fmt.Sprintf("field %q is not updatable", key),
				})
			}
		}
		if name, ok := fields["name"]; ok && name == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterNameEmpty,
				Message: "character name is required",
			})
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{CharacterID: characterID, Fields: fields})
		return command.Accept(command.NewEvent(cmd, EventTypeUpdated, "character", characterID, payloadJSON, now().UTC()))

	case CommandTypeSetVitals:
		var payload VitalsPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		characterID := strings.TrimSpace(payload.CharacterID)
		idx, ok := s.CharacterIndex(characterID)
		if !ok {
			return rejectNotFound(characterID)
		}
		if payload.HP == nil && payload.SP == nil {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterVitalsEmpty,
				Message: "no vitals to set",
			})
		}
		ch := s.Party[idx]
		hp := ch.HP
		if payload.HP != nil {
			hp = clamp(*payload.HP, 0, ch.MaxHP)
		}
		sp := ch.SP
		if payload.SP != nil {
			sp = clamp(*payload.SP, 0, ch.MaxSP)
		}

		normalized := VitalsPayload{CharacterID: characterID, HP: &hp, SP: &sp}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeVitalsSet, "character", characterID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func rejectDecode(cmd command.Command, err error) command.Decision {
	return command.Reject(command.Rejection{
		Code:    "PAYLOAD_DECODE_FAILED",
		Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
	})
}

func rejectNotFound(characterID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeCharacterNotFound,
		Message: fmt.Sprintf("character %s not found", characterID),
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
