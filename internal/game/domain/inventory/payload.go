package inventory

import "github.com/quest-net/questd/internal/game/state"

// EquipPayload captures the payload for inventory.equip commands.
type EquipPayload struct {
	CharacterID string `json:"character_id"`
	SlotIndex   int    `json:"slot_index"`
	ItemID      string `json:"item_id"`
}

// UnequipPayload captures the payload for inventory.unequip commands.
type UnequipPayload struct {
	CharacterID    string `json:"character_id"`
	EquipmentIndex int    `json:"equipment_index"`
	ItemID         string `json:"item_id"`
}

// UsePayload captures the payload for inventory.use commands.
type UsePayload struct {
	HolderID  string `json:"holder_id"`
	SlotIndex int    `json:"slot_index"`
	ItemID    string `json:"item_id"`
}

// GivePayload captures the payload for inventory.give commands.
type GivePayload struct {
	HolderID string `json:"holder_id"`
	ItemID   string `json:"item_id"`
}

// EquippedPayload captures the payload for inventory.equipped events. Item is
// the exact reference moved so replay is deterministic.
type EquippedPayload struct {
	CharacterID string              `json:"character_id"`
	SlotIndex   int                 `json:"slot_index"`
	Item        state.ItemReference `json:"item"`
}

// UnequippedPayload captures the payload for inventory.unequipped events.
type UnequippedPayload struct {
	CharacterID    string              `json:"character_id"`
	EquipmentIndex int                 `json:"equipment_index"`
	Item           state.ItemReference `json:"item"`
}

// UsedPayload captures the payload for inventory.used events. Item carries
// the post-use remaining count; Consumed removes the item from its holder.
type UsedPayload struct {
	HolderID  string              `json:"holder_id"`
	SlotIndex int                 `json:"slot_index"`
	Item      state.ItemReference `json:"item"`
	Consumed  bool                `json:"consumed"`
}

// GivenPayload captures the payload for inventory.given events. Item carries
// full uses copied from the template at grant time.
type GivenPayload struct {
	HolderID  string              `json:"holder_id"`
	Item      state.ItemReference `json:"item"`
	Stackable bool                `json:"stackable"`
}
