package transfer

import "github.com/quest-net/questd/internal/game/state"

// OfferPayload captures the payload for transfer.offer commands.
type OfferPayload struct {
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	SlotIndex int    `json:"slot_index"`
	ItemID    string `json:"item_id"`
}

// AcceptPayload captures the payload for transfer.accept commands.
type AcceptPayload struct {
	TransferID string `json:"transfer_id"`
}

// RejectPayload captures the payload for transfer.reject commands.
type RejectPayload struct {
	TransferID string `json:"transfer_id"`
}

// OfferedPayload captures the payload for transfer.offered events. Transfer
// carries the generated id and the exact item reference on offer.
type OfferedPayload struct {
	Transfer state.PendingTransfer `json:"transfer"`
}

// AcceptedPayload captures the payload for transfer.accepted events.
// SlotIndex is the sender slot resolved at accept time and Stackable decides
// whether the recipient merges the item into an existing stack.
type AcceptedPayload struct {
	TransferID string              `json:"transfer_id"`
	FromID     string              `json:"from_id"`
	ToID       string              `json:"to_id"`
	SlotIndex  int                 `json:"slot_index"`
	Item       state.ItemReference `json:"item"`
	Stackable  bool                `json:"stackable"`
}

// RejectedPayload captures the payload for transfer.rejected events.
type RejectedPayload struct {
	TransferID string `json:"transfer_id"`
}

// VoidedPayload captures the payload for transfer.voided events, emitted when
// an accepted offer can no longer be honored because the sender or the item
// disappeared while the transfer was pending.
type VoidedPayload struct {
	TransferID string `json:"transfer_id"`
	Reason     string `json:"reason"`
}
