package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/resolve"
	"github.com/quest-net/questd/internal/game/state"
)

const (
	CommandTypeEquip    command.Type = "inventory.equip"
	CommandTypeUnequip  command.Type = "inventory.unequip"
	CommandTypeUse      command.Type = "inventory.use"
	CommandTypeGive     command.Type = "inventory.give"
	EventTypeEquipped   event.Type   = "inventory.equipped"
	EventTypeUnequipped event.Type   = "inventory.unequipped"
	EventTypeUsed       event.Type   = "inventory.used"
	EventTypeGiven      event.Type   = "inventory.given"

	rejectionCodeCharacterNotFound     = "CHARACTER_NOT_FOUND"
	rejectionCodeHolderNotFound        = "HOLDER_NOT_FOUND"
	rejectionCodeSlotIndexInvalid      = "INVENTORY_SLOT_INVALID"
	rejectionCodeSlotItemMismatch      = "INVENTORY_ITEM_MISMATCH"
	rejectionCodeEquipmentIndexInvalid = "EQUIPMENT_INDEX_INVALID"
	rejectionCodeEquipmentItemMismatch = "EQUIPMENT_ITEM_MISMATCH"
	rejectionCodeItemNotUsable         = "ITEM_NOT_USABLE"
	rejectionCodeItemUsesExhausted     = "ITEM_USES_EXHAUSTED"
	rejectionCodeCatalogEntryNotFound  = "CATALOG_ENTRY_NOT_FOUND"
)

// Decide returns the decision for an inventory command against the current
// snapshot. Stale indices and mismatched item ids are rejections: the
// requester acted on an outdated view and the next broadcast corrects it.
func Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeEquip:
		var payload EquipPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		characterID := strings.TrimSpace(payload.CharacterID)
		idx, ok := s.CharacterIndex(characterID)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterNotFound,
				Message: fmt.Sprintf("character %s not found", characterID),
			})
		}
		ch := s.Party[idx]
		if payload.SlotIndex < 0 || payload.SlotIndex >= len(ch.Inventory) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSlotIndexInvalid,
				Message: fmt.Sprintf("slot %d out of range", payload.SlotIndex),
			})
		}
		slot := ch.Inventory[payload.SlotIndex]
		if slot.Item.CatalogID != payload.ItemID {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSlotItemMismatch,
				Message: fmt.Sprintf("slot %d does not hold item %s", payload.SlotIndex, payload.ItemID),
			})
		}

		normalized := EquippedPayload{
			CharacterID: characterID,
			SlotIndex:   payload.SlotIndex,
			Item:        state.CloneItemRef(slot.Item),
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeEquipped, "character", characterID, payloadJSON, now().UTC()))

	case CommandTypeUnequip:
		var payload UnequipPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		characterID := strings.TrimSpace(payload.CharacterID)
		idx, ok := s.CharacterIndex(characterID)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCharacterNotFound,
				Message: fmt.Sprintf("character %s not found", characterID),
			})
		}
		ch := s.Party[idx]
		if payload.EquipmentIndex < 0 || payload.EquipmentIndex >= len(ch.Equipment) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEquipmentIndexInvalid,
				Message: fmt.Sprintf("equipment index %d out of range", payload.EquipmentIndex),
			})
		}
		ref := ch.Equipment[payload.EquipmentIndex]
		if ref.CatalogID != payload.ItemID {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEquipmentItemMismatch,
				Message: fmt.Sprintf("equipment index %d does not hold item %s", payload.EquipmentIndex, payload.ItemID),
			})
		}

		normalized := UnequippedPayload{
			CharacterID:    characterID,
			EquipmentIndex: payload.EquipmentIndex,
			Item:           state.CloneItemRef(ref),
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeUnequipped, "character", characterID, payloadJSON, now().UTC()))

	case CommandTypeUse:
		var payload UsePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		holderID := strings.TrimSpace(payload.HolderID)
		holder, ok := s.FindHolder(holderID)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeHolderNotFound,
				Message: fmt.Sprintf("holder %s not found", holderID),
			})
		}
		slots := s.HolderInventory(holder)
		if payload.SlotIndex < 0 || payload.SlotIndex >= len(slots) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSlotIndexInvalid,
				Message: fmt.Sprintf("slot %d out of range", payload.SlotIndex),
			})
		}
		slot := slots[payload.SlotIndex]
		if slot.Item.CatalogID != payload.ItemID {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSlotItemMismatch,
				Message: fmt.Sprintf("slot %d does not hold item %s", payload.SlotIndex, payload.ItemID),
			})
		}
		view := resolve.Item(s, slot.Item)
		if view.Orphaned {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCatalogEntryNotFound,
				Message: fmt.Sprintf("item %s no longer exists in the catalog", slot.Item.CatalogID),
			})
		}
		if view.Uses == nil {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeItemNotUsable,
				Message: fmt.Sprintf("item %s tracks no uses", slot.Item.CatalogID),
			})
		}
		usesLeft := *view.Uses
		if slot.Item.UsesLeft != nil {
			usesLeft = *slot.Item.UsesLeft
		}
		if usesLeft <= 0 {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeItemUsesExhausted,
				Message: fmt.Sprintf("item %s has no uses left", slot.Item.CatalogID),
			})
		}
		remaining := usesLeft - 1

		normalized := UsedPayload{
			HolderID:  holderID,
			SlotIndex: payload.SlotIndex,
			Item:      state.ItemReference{CatalogID: slot.Item.CatalogID, UsesLeft: &remaining},
			Consumed:  remaining == 0 && view.ConsumeOnUse,
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeUsed, "item", slot.Item.CatalogID, payloadJSON, now().UTC()))

	case CommandTypeGive:
		var payload GivePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		holderID := strings.TrimSpace(payload.HolderID)
		if _, ok := s.FindHolder(holderID); !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeHolderNotFound,
				Message: fmt.Sprintf("holder %s not found", holderID),
			})
		}
		itemID := strings.TrimSpace(payload.ItemID)
		view := resolve.Item(s, state.ItemReference{CatalogID: itemID})
		if view.Orphaned {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCatalogEntryNotFound,
				Message: fmt.Sprintf("item %s not found in the catalog", payload.ItemID),
			})
		}

		normalized := GivenPayload{
			HolderID:  holderID,
			Item:      state.ItemReference{CatalogID: itemID, UsesLeft: state.CloneUses(view.Uses)},
			Stackable: view.Stackable,
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeGiven, "item", itemID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func rejectDecode(cmd command.Command, err error) command.Decision {
	return command.Reject(command.Rejection{
		Code:    "PAYLOAD_DECODE_FAILED",
		Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
	})
}
