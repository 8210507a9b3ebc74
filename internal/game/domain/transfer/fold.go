package transfer

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/domain/inventory"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the transfer fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeOffered,
		EventTypeAccepted,
		EventTypeRejected,
		EventTypeVoided,
	}
}

// Fold applies a transfer event to the snapshot. An accepted transfer removes
// the item from the sender, adds it to the recipient, and clears the pending
// entry in this single fold, so no snapshot shows a half-moved item.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeOffered:
		var payload OfferedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("transfer fold %s: %w", evt.Type, err)
		}
		transfers := state.CopyTransfers(s.Transfers)
		transfers = append(transfers, payload.Transfer)
		transfers[len(transfers)-1].Item = state.CloneItemRef(payload.Transfer.Item)
		s.Transfers = transfers

	case EventTypeAccepted:
		var payload AcceptedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("transfer fold %s: %w", evt.Type, err)
		}
		s = removePending(s, payload.TransferID)
		from, okFrom := s.FindHolder(payload.FromID)
		to, okTo := s.FindHolder(payload.ToID)
		if !okFrom || !okTo {
			return s, nil
		}
		slots := s.HolderInventory(from)
		if payload.SlotIndex < 0 || payload.SlotIndex >= len(slots) {
			return s, nil
		}
		sender := state.CloneSlots(slots)
		if sender[payload.SlotIndex].Count > 1 {
			sender[payload.SlotIndex].Count--
		} else {
			sender = append(sender[:payload.SlotIndex], sender[payload.SlotIndex+1:]...)
		}
		s = s.WithHolderInventory(from, sender)
		s = s.WithHolderInventory(to, inventory.AddToInventory(s.HolderInventory(to), payload.Item, payload.Stackable))

	case EventTypeRejected:
		var payload RejectedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("transfer fold %s: %w", evt.Type, err)
		}
		s = removePending(s, payload.TransferID)

	case EventTypeVoided:
		var payload VoidedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("transfer fold %s: %w", evt.Type, err)
		}
		s = removePending(s, payload.TransferID)
	}
	return s, nil
}

func removePending(s state.Snapshot, transferID string) state.Snapshot {
	idx, ok := s.TransferIndex(transferID)
	if !ok {
		return s
	}
	transfers := state.CopyTransfers(s.Transfers)
	s.Transfers = append(transfers[:idx], transfers[idx+1:]...)
	return s
}
