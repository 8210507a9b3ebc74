package transfer

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
	CommandTypeOffer  command.Type = "transfer.offer"
	CommandTypeAccept command.Type = "transfer.accept"
	CommandTypeReject command.Type = "transfer.reject"
	EventTypeOffered  event.Type   = "transfer.offered"
	EventTypeAccepted event.Type   = "transfer.accepted"
	EventTypeRejected event.Type   = "transfer.rejected"
	EventTypeVoided   event.Type   = "transfer.voided"

	rejectionCodeHolderNotFound       = "HOLDER_NOT_FOUND"
	rejectionCodeSlotIndexInvalid     = "INVENTORY_SLOT_INVALID"
	rejectionCodeSlotItemMismatch     = "INVENTORY_ITEM_MISMATCH"
	rejectionCodeTransferToSelf       = "TRANSFER_TO_SELF"
	rejectionCodeTransferNotFound     = "TRANSFER_NOT_FOUND"
	rejectionCodeTransferItemPending  = "TRANSFER_ITEM_PENDING"
	rejectionCodeCatalogEntryNotFound = "CATALOG_ENTRY_NOT_FOUND"
)

// Decider decides transfer commands. Offer ids come from the injected
// generator so replays fold journaled ids instead of minting new ones.
type Decider struct {
	newID func() string
}

// NewDecider builds a transfer decider around an id generator.
func NewDecider(newID func() string) *Decider {
	return &Decider{newID: newID}
}

// Decide returns the decision for a transfer command against the current
// snapshot.
func (d *Decider) Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeOffer:
		var payload OfferPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		fromID := strings.TrimSpace(payload.FromID)
		toID := strings.TrimSpace(payload.ToID)
		if fromID == toID {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeTransferToSelf,
				Message: "sender and recipient must differ",
			})
		}
		from, ok := s.FindHolder(fromID)
		if !ok {
			return rejectHolderNotFound(fromID)
		}
		if _, ok := s.FindHolder(toID); !ok {
			return rejectHolderNotFound(toID)
		}
		slots := s.HolderInventory(from)
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
		if pendingFor(s, fromID, slot.Item) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeTransferItemPending,
				Message: fmt.Sprintf("item %s already has a pending transfer", slot.Item.CatalogID),
			})
		}

		normalized := OfferedPayload{Transfer: state.PendingTransfer{
			TransferID: d.newID(),
			FromID:     fromID,
			ToID:       toID,
			SlotIndex:  payload.SlotIndex,
			Item:       state.CloneItemRef(slot.Item),
		}}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeOffered, "transfer", normalized.Transfer.TransferID, payloadJSON, now().UTC()))

	case CommandTypeAccept:
		var payload AcceptPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		transferID := strings.TrimSpace(payload.TransferID)
		idx, ok := s.TransferIndex(transferID)
		if !ok {
			return rejectTransferNotFound(transferID)
		}
		pending := s.Transfers[idx]

		// The item stayed with the sender while pending, so anything may
		// have happened to it. Re-resolve before moving; a vanished item
		// voids the offer instead of moving nothing.
		from, ok := s.FindHolder(pending.FromID)
		if !ok {
			return acceptVoid(cmd, transferID, "sender no longer exists", now)
		}
		if _, ok := s.FindHolder(pending.ToID); !ok {
			return acceptVoid(cmd, transferID, "recipient no longer exists", now)
		}
		slotIndex, ok := findSenderSlot(s.HolderInventory(from), pending)
		if !ok {
			return acceptVoid(cmd, transferID, "item no longer held by sender", now)
		}
		stackable := false
		if tmpl, found := s.Catalog.Item(pending.Item.CatalogID); found {
			stackable = tmpl.Stackable()
		}

		normalized := AcceptedPayload{
			TransferID: transferID,
			FromID:     pending.FromID,
			ToID:       pending.ToID,
			SlotIndex:  slotIndex,
			Item:       state.CloneItemRef(pending.Item),
			Stackable:  stackable,
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeAccepted, "transfer", transferID, payloadJSON, now().UTC()))

	case CommandTypeReject:
		var payload RejectPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		transferID := strings.TrimSpace(payload.TransferID)
		if _, ok := s.TransferIndex(transferID); !ok {
			return rejectTransferNotFound(transferID)
		}

		normalized := RejectedPayload{TransferID: transferID}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeRejected, "transfer", transferID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

// pendingFor reports whether the sender already has a pending transfer for an
// equivalent item reference.
func pendingFor(s state.Snapshot, fromID string, item state.ItemReference) bool {
	for _, tr := range s.Transfers {
		if tr.FromID == fromID && sameReference(tr.Item, item) {
			return true
		}
	}
	return false
}

// findSenderSlot locates the offered item in the sender's inventory. The slot
// index recorded at offer time is only a hint; intervening mutations may have
// shifted slots.
func findSenderSlot(slots []state.InventorySlot, pending state.PendingTransfer) (int, bool) {
	if pending.SlotIndex >= 0 && pending.SlotIndex < len(slots) && sameReference(slots[pending.SlotIndex].Item, pending.Item) {
		return pending.SlotIndex, true
	}
	for i, slot := range slots {
		if sameReference(slot.Item, pending.Item) {
			return i, true
		}
	}
	return -1, false
}

func sameReference(a, b state.ItemReference) bool {
	if a.CatalogID != b.CatalogID {
		return false
	}
	if (a.UsesLeft == nil) != (b.UsesLeft == nil) {
		return false
	}
	return a.UsesLeft == nil || *a.UsesLeft == *b.UsesLeft
}

func acceptVoid(cmd command.Command, transferID, reason string, now func() time.Time) command.Decision {
	payloadJSON, _ := json.Marshal(VoidedPayload{TransferID: transferID, Reason: reason})
	return command.Accept(command.NewEvent(cmd, EventTypeVoided, "transfer", transferID, payloadJSON, now().UTC()))
}

func rejectDecode(cmd command.Command, err error) command.Decision {
	return command.Reject(command.Rejection{
		Code:    "PAYLOAD_DECODE_FAILED",
		Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
	})
}

func rejectHolderNotFound(holderID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeHolderNotFound,
		Message: fmt.Sprintf("holder %s not found", holderID),
	})
}

func rejectTransferNotFound(transferID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeTransferNotFound,
		Message: fmt.Sprintf("transfer %s not found", transferID),
	})
}
