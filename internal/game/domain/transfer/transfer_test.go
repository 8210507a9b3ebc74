package transfer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/state"
)

func fixedNow() time.Time {
	return time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func testDecider() *Decider {
	n := 0
	return NewDecider(func() string {
		n++
		return "tr-" + string(rune('0'+n))
	})
}

func testSnapshot() state.Snapshot {
	return state.Snapshot{
		GameID: "game-1",
		Catalog: state.Catalog{
			Items: []state.ItemTemplate{
				{ID: "item-rope", Name: "Rope"},
				{ID: "item-potion", Name: "Potion", Uses: intPtr(3), ConsumeOnUse: true},
			},
		},
		Party: []state.Character{
			{
				ID: "char-a", Name: "Ava",
				Inventory: []state.InventorySlot{
					{Item: state.ItemReference{CatalogID: "item-rope"}, Count: 2},
					{Item: state.ItemReference{CatalogID: "item-potion", UsesLeft: intPtr(2)}, Count: 1},
				},
			},
			{
				ID: "char-b", Name: "Bo",
				Inventory: []state.InventorySlot{
					{Item: state.ItemReference{CatalogID: "item-rope"}, Count: 1},
				},
			},
		},
	}
}

func decideCmd(t *testing.T, cmdType command.Type, payload any) command.Command {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return command.Command{
		GameID:      "game-1",
		Type:        cmdType,
		ActorType:   command.ActorTypePeer,
		ActorID:     "peer-1",
		PayloadJSON: raw,
	}
}

func acceptAndFold(t *testing.T, d *Decider, s state.Snapshot, cmd command.Command) state.Snapshot {
	t.Helper()
	decision := d.Decide(s, cmd, fixedNow)
	if len(decision.Rejections) > 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	if len(decision.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(decision.Events))
	}
	next, err := Fold(s, decision.Events[0])
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	return next
}

func TestOfferLeavesItemWithSender(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	next := acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}))

	if len(next.Transfers) != 1 {
		t.Fatalf("expected one pending transfer, got %d", len(next.Transfers))
	}
	tr := next.Transfers[0]
	if tr.TransferID == "" || tr.FromID != "char-a" || tr.ToID != "char-b" {
		t.Fatalf("unexpected pending transfer %+v", tr)
	}
	if len(next.Party[0].Inventory) != 2 {
		t.Fatal("offer must not move the item")
	}
	if len(next.Party[1].Inventory) != 1 {
		t.Fatal("offer must not deliver the item")
	}
}

func TestOfferRejectsSelfAndDuplicate(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	decision := d.Decide(s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-a", SlotIndex: 0, ItemID: "item-rope",
	}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeTransferToSelf {
		t.Fatalf("expected %s, got %+v", rejectionCodeTransferToSelf, decision.Rejections)
	}

	s = acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}))
	decision = d.Decide(s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeTransferItemPending {
		t.Fatalf("expected %s, got %+v", rejectionCodeTransferItemPending, decision.Rejections)
	}
}

func TestAcceptMovesItemAtomically(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	s = acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}))
	transferID := s.Transfers[0].TransferID

	next := acceptAndFold(t, d, s, decideCmd(t, CommandTypeAccept, AcceptPayload{TransferID: transferID}))

	// one fold, three effects
	if len(next.Transfers) != 0 {
		t.Fatalf("expected pending cleared, got %+v", next.Transfers)
	}
	sender := next.Party[0]
	if len(sender.Inventory) != 1 || sender.Inventory[0].Item.CatalogID != "item-rope" {
		t.Fatalf("expected potion gone from sender, got %+v", sender.Inventory)
	}
	recipient := next.Party[1]
	if len(recipient.Inventory) != 2 {
		t.Fatalf("expected potion delivered in its own slot, got %+v", recipient.Inventory)
	}
	got := recipient.Inventory[1]
	if got.Item.CatalogID != "item-potion" || got.Item.UsesLeft == nil || *got.Item.UsesLeft != 2 {
		t.Fatalf("expected remaining uses to travel, got %+v", got.Item)
	}

	// the pre-accept snapshot still shows the item with the sender only
	if len(s.Party[0].Inventory) != 2 || len(s.Party[1].Inventory) != 1 {
		t.Fatal("accept mutated the prior snapshot")
	}
}

func TestAcceptMergesStackableIntoRecipientStack(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	s = acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 0, ItemID: "item-rope",
	}))
	next := acceptAndFold(t, d, s, decideCmd(t, CommandTypeAccept, AcceptPayload{TransferID: s.Transfers[0].TransferID}))

	if next.Party[0].Inventory[0].Count != 1 {
		t.Fatalf("expected sender stack decremented, got %d", next.Party[0].Inventory[0].Count)
	}
	recipient := next.Party[1]
	if len(recipient.Inventory) != 1 || recipient.Inventory[0].Count != 2 {
		t.Fatalf("expected merge into recipient stack, got %+v", recipient.Inventory)
	}
}

func TestAcceptResolvesShiftedSlot(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	s = acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}))
	// sender inventory mutates while the offer is pending: rope slot removed
	party := state.CopyParty(s.Party)
	party[0].Inventory = state.CloneSlots(s.Party[0].Inventory[1:])
	s.Party = party

	next := acceptAndFold(t, d, s, decideCmd(t, CommandTypeAccept, AcceptPayload{TransferID: s.Transfers[0].TransferID}))
	if len(next.Party[0].Inventory) != 0 {
		t.Fatalf("expected potion found at its shifted slot, got %+v", next.Party[0].Inventory)
	}
	if len(next.Party[1].Inventory) != 2 {
		t.Fatalf("expected potion delivered, got %+v", next.Party[1].Inventory)
	}
}

func TestAcceptVoidsWhenItemGone(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	s = acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}))
	party := state.CopyParty(s.Party)
	party[0].Inventory = nil
	s.Party = party

	decision := d.Decide(s, decideCmd(t, CommandTypeAccept, AcceptPayload{TransferID: s.Transfers[0].TransferID}), fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != EventTypeVoided {
		t.Fatalf("expected voided event, got %+v", decision)
	}
	next, err := Fold(s, decision.Events[0])
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(next.Transfers) != 0 {
		t.Fatalf("expected pending cleared, got %+v", next.Transfers)
	}
	if len(next.Party[1].Inventory) != 1 {
		t.Fatal("voided transfer must not deliver the item")
	}
}

func TestRejectClearsPendingOnly(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	s = acceptAndFold(t, d, s, decideCmd(t, CommandTypeOffer, OfferPayload{
		FromID: "char-a", ToID: "char-b", SlotIndex: 1, ItemID: "item-potion",
	}))
	next := acceptAndFold(t, d, s, decideCmd(t, CommandTypeReject, RejectPayload{TransferID: s.Transfers[0].TransferID}))

	if len(next.Transfers) != 0 {
		t.Fatalf("expected pending cleared, got %+v", next.Transfers)
	}
	if len(next.Party[0].Inventory) != 2 || len(next.Party[1].Inventory) != 1 {
		t.Fatal("reject must not move items")
	}
}

func TestAcceptUnknownTransferRejected(t *testing.T) {
	d := testDecider()
	s := testSnapshot()
	decision := d.Decide(s, decideCmd(t, CommandTypeAccept, AcceptPayload{TransferID: "tr-x"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeTransferNotFound {
		t.Fatalf("expected %s, got %+v", rejectionCodeTransferNotFound, decision.Rejections)
	}
}
