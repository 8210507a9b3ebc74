package catalog

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
	CommandTypeItemUpsert   command.Type = "catalog.item_upsert"
	CommandTypeItemDelete   command.Type = "catalog.item_delete"
	CommandTypeSkillUpsert  command.Type = "catalog.skill_upsert"
	CommandTypeSkillDelete  command.Type = "catalog.skill_delete"
	CommandTypeEntityUpsert command.Type = "catalog.entity_upsert"
	CommandTypeEntityDelete command.Type = "catalog.entity_delete"
	EventTypeItemUpserted   event.Type   = "catalog.item_upserted"
	EventTypeItemDeleted    event.Type   = "catalog.item_deleted"
	EventTypeSkillUpserted  event.Type   = "catalog.skill_upserted"
	EventTypeSkillDeleted   event.Type   = "catalog.skill_deleted"
	EventTypeEntityUpserted event.Type   = "catalog.entity_upserted"
	EventTypeEntityDeleted  event.Type   = "catalog.entity_deleted"

	rejectionCodeCatalogIDRequired    = "CATALOG_ID_REQUIRED"
	rejectionCodeCatalogNameEmpty     = "CATALOG_NAME_EMPTY"
	rejectionCodeCatalogEntryNotFound = "CATALOG_ENTRY_NOT_FOUND"
)

// Decide returns the decision for a catalog editor command against the
// current snapshot.
func Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeItemUpsert:
		var payload ItemUpsertPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		item := payload.Item
		item.ID = strings.TrimSpace(item.ID)
		item.Name = strings.TrimSpace(item.Name)
		if rejection, ok := requireIDAndName(item.ID, item.Name); !ok {
			return rejection
		}
		if item.Uses != nil && *item.Uses < 0 {
			zero := 0
			item.Uses = &zero
		}
		payloadJSON, _ := json.Marshal(ItemUpsertPayload{Item: item})
		return command.Accept(command.NewEvent(cmd, EventTypeItemUpserted, "catalog_item", item.ID, payloadJSON, now().UTC()))

	case CommandTypeItemDelete:
		payload, rejection, ok := decodeDelete(cmd)
		if !ok {
			return rejection
		}
		if _, found := s.Catalog.Item(payload.CatalogID); !found {
			return rejectNotFound(payload.CatalogID)
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTypeItemDeleted, "catalog_item", payload.CatalogID, payloadJSON, now().UTC()))

	case CommandTypeSkillUpsert:
		var payload SkillUpsertPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		skill := payload.Skill
		skill.ID = strings.TrimSpace(skill.ID)
		skill.Name = strings.TrimSpace(skill.Name)
		if rejection, ok := requireIDAndName(skill.ID, skill.Name); !ok {
			return rejection
		}
		payloadJSON, _ := json.Marshal(SkillUpsertPayload{Skill: skill})
		return command.Accept(command.NewEvent(cmd, EventTypeSkillUpserted, "catalog_skill", skill.ID, payloadJSON, now().UTC()))

	case CommandTypeSkillDelete:
		payload, rejection, ok := decodeDelete(cmd)
		if !ok {
			return rejection
		}
		if _, found := s.Catalog.Skill(payload.CatalogID); !found {
			return rejectNotFound(payload.CatalogID)
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTypeSkillDeleted, "catalog_skill", payload.CatalogID, payloadJSON, now().UTC()))

	case CommandTypeEntityUpsert:
		var payload EntityUpsertPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		entity := payload.Entity
		entity.ID = strings.TrimSpace(entity.ID)
		entity.Name = strings.TrimSpace(entity.Name)
		if rejection, ok := requireIDAndName(entity.ID, entity.Name); !ok {
			return rejection
		}
		if entity.MaxHP < 0 {
			entity.MaxHP = 0
		}
		if entity.MaxSP < 0 {
			entity.MaxSP = 0
		}
		payloadJSON, _ := json.Marshal(EntityUpsertPayload{Entity: entity})
		return command.Accept(command.NewEvent(cmd, EventTypeEntityUpserted, "catalog_entity", entity.ID, payloadJSON, now().UTC()))

	case CommandTypeEntityDelete:
		payload, rejection, ok := decodeDelete(cmd)
		if !ok {
			return rejection
		}
		if _, found := s.Catalog.Entity(payload.CatalogID); !found {
			return rejectNotFound(payload.CatalogID)
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTypeEntityDeleted, "catalog_entity", payload.CatalogID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func decodeDelete(cmd command.Command) (DeletePayload, command.Decision, bool) {
	var payload DeletePayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return DeletePayload{}, rejectDecode(cmd, err), false
	}
	payload.CatalogID = strings.TrimSpace(payload.CatalogID)
	if payload.CatalogID == "" {
		return DeletePayload{}, command.Reject(command.Rejection{
			Code:    rejectionCodeCatalogIDRequired,
			Message: "catalog id is required",
		}), false
	}
	return payload, command.Decision{}, true
}

func requireIDAndName(id, name string) (command.Decision, bool) {
	if id == "" {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeCatalogIDRequired,
			Message: "catalog id is required",
		}), false
	}
	if name == "" {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeCatalogNameEmpty,
			Message: "catalog entry name is required",
		}), false
	}
	return command.Decision{}, true
}

func rejectDecode(cmd command.Command, err error) command.Decision {
	return command.Reject(command.Rejection{
		Code:    "PAYLOAD_DECODE_FAILED",
		Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
	})
}

func rejectNotFound(catalogID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeCatalogEntryNotFound,
		Message: fmt.Sprintf("catalog entry %s not found", catalogID),
	})
}
