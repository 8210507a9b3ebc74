// Package state defines the canonical game snapshot shared by every domain fold.
//
// A snapshot is one complete, immutable copy of the authority's game state.
// Folds never mutate a snapshot in place: they copy the slices along the path
// they touch and return a full replacement, so unrelated branches of two
// consecutive snapshots stay semantically equal.
package state

// Side identifies which side holds combat initiative.
type Side string

const (
	// SideParty indicates the party acts first.
	SideParty Side = "party"
	// SideEnemies indicates the enemies act first.
	SideEnemies Side = "enemies"
)

// IsValid reports whether the side is one of the two known values.
func (s Side) IsValid() bool {
	return s == SideParty || s == SideEnemies
}

// ItemTemplate is a reusable item definition owned by the catalog.
type ItemTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	// Uses is the full use count for consumable items; nil means the item
	// tracks no uses and is therefore stackable.
	Uses *int `json:"uses,omitempty"`
	// ConsumeOnUse removes the item from its holder when uses reach zero.
	ConsumeOnUse bool `json:"consume_on_use,omitempty"`
}

// Stackable reports whether copies of this item may share an inventory slot.
// Items with use tracking never stack because uses_left differentiates
// otherwise-identical references.
func (t ItemTemplate) Stackable() bool {
	return t.Uses == nil
}

// SkillTemplate is a reusable skill definition owned by the catalog.
type SkillTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Uses        *int   `json:"uses,omitempty"`
	SPCost      int    `json:"sp_cost,omitempty"`
	Damage      int    `json:"damage,omitempty"`
}

// EntityTemplate is a reusable combatant definition owned by the catalog.
type EntityTemplate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Image       string           `json:"image,omitempty"`
	MaxHP       int              `json:"max_hp"`
	MaxSP       int              `json:"max_sp"`
	Skills      []SkillReference `json:"skills,omitempty"`
}

// Catalog is the authority's library of reusable templates.
type Catalog struct {
	Items    []ItemTemplate   `json:"items"`
	Skills   []SkillTemplate  `json:"skills"`
	Entities []EntityTemplate `json:"entities"`
}

// Item returns the item template with the given id.
func (c Catalog) Item(id string) (ItemTemplate, bool) {
	for _, t := range c.Items {
		if t.ID == id {
			return t, true
		}
	}
	return ItemTemplate{}, false
}

// Skill returns the skill template with the given id.
func (c Catalog) Skill(id string) (SkillTemplate, bool) {
	for _, t := range c.Skills {
		if t.ID == id {
			return t, true
		}
	}
	return SkillTemplate{}, false
}

// Entity returns the entity template with the given id.
func (c Catalog) Entity(id string) (EntityTemplate, bool) {
	for _, t := range c.Entities {
		if t.ID == id {
			return t, true
		}
	}
	return EntityTemplate{}, false
}

// ItemReference points at an item template plus instance-mutable use state.
// A reference never duplicates template display data.
type ItemReference struct {
	CatalogID string `json:"catalog_id"`
	UsesLeft  *int   `json:"uses_left,omitempty"`
}

// SkillReference points at a skill template plus instance-mutable use state.
type SkillReference struct {
	CatalogID string `json:"catalog_id"`
	UsesLeft  *int   `json:"uses_left,omitempty"`
}

// InventorySlot pairs an item reference with a stack count. Count is greater
// than one only for stackable items.
type InventorySlot struct {
	Item  ItemReference `json:"item"`
	Count int           `json:"count"`
}

// Character is a party member. The authority is its only writer.
type Character struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Image       string           `json:"image,omitempty"`
	HP          int              `json:"hp"`
	MaxHP       int              `json:"max_hp"`
	SP          int              `json:"sp"`
	MaxSP       int              `json:"max_sp"`
	Inventory   []InventorySlot  `json:"inventory"`
	Equipment   []ItemReference  `json:"equipment"`
	Skills      []SkillReference `json:"skills"`
}

// FieldEntity is a spawned combatant instance. It copies template stats at
// spawn time and then lives independently of its template, except for display
// metadata which stays live-joined through the resolver.
type FieldEntity struct {
	InstanceID string           `json:"instance_id"`
	CatalogID  string           `json:"catalog_id"`
	// Name is the disambiguated display name ("Goblin", "Goblin #2", ...).
	Name      string           `json:"name"`
	HP        int              `json:"hp"`
	SP        int              `json:"sp"`
	Inventory []InventorySlot  `json:"inventory,omitempty"`
	Skills    []SkillReference `json:"skills,omitempty"`
}

// CombatState is the combat turn machine. It exists only while combat is
// active; end resets it to the zero value.
type CombatState struct {
	Active     bool `json:"active"`
	Turn       int  `json:"turn"`
	Initiative Side `json:"initiative,omitempty"`
}

// PendingTransfer is an offered but not yet accepted item transfer. While
// pending, the item remains with the sender.
type PendingTransfer struct {
	TransferID string        `json:"transfer_id"`
	FromID     string        `json:"from_id"`
	ToID       string        `json:"to_id"`
	SlotIndex  int           `json:"slot_index"`
	Item       ItemReference `json:"item"`
}

// Snapshot is one complete copy of the canonical game state.
type Snapshot struct {
	GameID string `json:"game_id"`
	// Rev is the sequence number of the last folded event.
	Rev       uint64            `json:"rev"`
	Catalog   Catalog           `json:"catalog"`
	Party     []Character       `json:"party"`
	Field     []FieldEntity     `json:"field"`
	Combat    CombatState       `json:"combat"`
	Transfers []PendingTransfer `json:"transfers,omitempty"`
}

// CharacterIndex returns the index of the party member with the given id.
func (s Snapshot) CharacterIndex(id string) (int, bool) {
	for i, ch := range s.Party {
		if ch.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FieldIndex returns the index of the field entity with the given instance id.
func (s Snapshot) FieldIndex(instanceID string) (int, bool) {
	for i, fe := range s.Field {
		if fe.InstanceID == instanceID {
			return i, true
		}
	}
	return -1, false
}

// TransferIndex returns the index of the pending transfer with the given id.
func (s Snapshot) TransferIndex(transferID string) (int, bool) {
	for i, tr := range s.Transfers {
		if tr.TransferID == transferID {
			return i, true
		}
	}
	return -1, false
}
