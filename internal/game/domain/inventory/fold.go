package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the inventory fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeEquipped,
		EventTypeUnequipped,
		EventTypeUsed,
		EventTypeGiven,
	}
}

// Fold applies an inventory event to the snapshot. Events reference holders
// by id; a missing holder makes the event a no-op so replay never fails on
// state that later events removed.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeEquipped:
		var payload EquippedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("inventory fold %s: %w", evt.Type, err)
		}
		idx, ok := s.CharacterIndex(payload.CharacterID)
		if !ok {
			return s, nil
		}
		ch := s.Party[idx]
		if payload.SlotIndex < 0 || payload.SlotIndex >= len(ch.Inventory) {
			return s, nil
		}
		party := state.CopyParty(s.Party)
		party[idx].Inventory = takeFromSlot(state.CloneSlots(ch.Inventory), payload.SlotIndex)
		party[idx].Equipment = append(state.CloneItemRefs(ch.Equipment), state.CloneItemRef(payload.Item))
		s.Party = party

	case EventTypeUnequipped:
		var payload UnequippedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("inventory fold %s: %w", evt.Type, err)
		}
		idx, ok := s.CharacterIndex(payload.CharacterID)
		if !ok {
			return s, nil
		}
		ch := s.Party[idx]
		if payload.EquipmentIndex < 0 || payload.EquipmentIndex >= len(ch.Equipment) {
			return s, nil
		}
		equipment := state.CloneItemRefs(ch.Equipment)
		equipment = append(equipment[:payload.EquipmentIndex], equipment[payload.EquipmentIndex+1:]...)
		party := state.CopyParty(s.Party)
		party[idx].Equipment = equipment
		// Always a fresh slot: never merge an unequipped copy into an
		// existing stack.
		party[idx].Inventory = append(state.CloneSlots(ch.Inventory), state.InventorySlot{
			Item:  state.CloneItemRef(payload.Item),
			Count: 1,
		})
		s.Party = party

	case EventTypeUsed:
		var payload UsedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("inventory fold %s: %w", evt.Type, err)
		}
		holder, ok := s.FindHolder(payload.HolderID)
		if !ok {
			return s, nil
		}
		slots := s.HolderInventory(holder)
		if payload.SlotIndex < 0 || payload.SlotIndex >= len(slots) {
			return s, nil
		}
		next := state.CloneSlots(slots)
		if payload.Consumed {
			next = takeFromSlot(next, payload.SlotIndex)
		} else {
			next[payload.SlotIndex].Item = state.CloneItemRef(payload.Item)
		}
		s = s.WithHolderInventory(holder, next)

	case EventTypeGiven:
		var payload GivenPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("inventory fold %s: %w", evt.Type, err)
		}
		holder, ok := s.FindHolder(payload.HolderID)
		if !ok {
			return s, nil
		}
		s = s.WithHolderInventory(holder, AddToInventory(s.HolderInventory(holder), payload.Item, payload.Stackable))
	}
	return s, nil
}

// AddToInventory returns a copy of slots with one copy of item added. Stackable
// items merge into an existing stack of the same template; everything else
// lands in a fresh slot.
func AddToInventory(slots []state.InventorySlot, item state.ItemReference, stackable bool) []state.InventorySlot {
	next := state.CloneSlots(slots)
	if stackable {
		for i, slot := range next {
			if slot.Item.CatalogID == item.CatalogID && slot.Item.UsesLeft == nil {
				next[i].Count++
				return next
			}
		}
	}
	return append(next, state.InventorySlot{Item: state.CloneItemRef(item), Count: 1})
}

// takeFromSlot removes one item from the slot at index, dropping the slot when
// its stack empties. The slice must already be caller-owned.
func takeFromSlot(slots []state.InventorySlot, index int) []state.InventorySlot {
	if slots[index].Count > 1 {
		slots[index].Count--
		return slots
	}
	return append(slots[:index], slots[index+1:]...)
}
