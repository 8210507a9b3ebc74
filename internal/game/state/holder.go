package state

// HolderKind distinguishes the two kinds of reference holders.
type HolderKind string

const (
	// HolderCharacter is a party member addressed by character id.
	HolderCharacter HolderKind = "character"
	// HolderFieldEntity is a spawned combatant addressed by instance id.
	HolderFieldEntity HolderKind = "field_entity"
)

// Holder locates a reference holder inside a snapshot.
type Holder struct {
	Kind  HolderKind
	Index int
}

// FindHolder resolves a holder id against the party first, then the field.
func (s Snapshot) FindHolder(id string) (Holder, bool) {
	if i, ok := s.CharacterIndex(id); ok {
		return Holder{Kind: HolderCharacter, Index: i}, true
	}
	if i, ok := s.FieldIndex(id); ok {
		return Holder{Kind: HolderFieldEntity, Index: i}, true
	}
	return Holder{}, false
}

// HolderInventory returns the holder's inventory slice.
func (s Snapshot) HolderInventory(h Holder) []InventorySlot {
	switch h.Kind {
	case HolderCharacter:
		return s.Party[h.Index].Inventory
	case HolderFieldEntity:
		return s.Field[h.Index].Inventory
	}
	return nil
}

// WithHolderInventory returns a snapshot with the holder's inventory replaced,
// copying only the containers along the path.
func (s Snapshot) WithHolderInventory(h Holder, slots []InventorySlot) Snapshot {
	switch h.Kind {
	case HolderCharacter:
		party := CopyParty(s.Party)
		party[h.Index].Inventory = slots
		s.Party = party
	case HolderFieldEntity:
		field := CopyField(s.Field)
		field[h.Index].Inventory = slots
		s.Field = field
	}
	return s
}

// HolderSkills returns the holder's skills slice.
func (s Snapshot) HolderSkills(h Holder) []SkillReference {
	switch h.Kind {
	case HolderCharacter:
		return s.Party[h.Index].Skills
	case HolderFieldEntity:
		return s.Field[h.Index].Skills
	}
	return nil
}

// WithHolderSkills returns a snapshot with the holder's skills replaced.
func (s Snapshot) WithHolderSkills(h Holder, skills []SkillReference) Snapshot {
	switch h.Kind {
	case HolderCharacter:
		party := CopyParty(s.Party)
		party[h.Index].Skills = skills
		s.Party = party
	case HolderFieldEntity:
		field := CopyField(s.Field)
		field[h.Index].Skills = skills
		s.Field = field
	}
	return s
}

// HolderSP returns the holder's current skill points.
func (s Snapshot) HolderSP(h Holder) int {
	switch h.Kind {
	case HolderCharacter:
		return s.Party[h.Index].SP
	case HolderFieldEntity:
		return s.Field[h.Index].SP
	}
	return 0
}

// WithHolderSP returns a snapshot with the holder's skill points replaced.
func (s Snapshot) WithHolderSP(h Holder, sp int) Snapshot {
	switch h.Kind {
	case HolderCharacter:
		party := CopyParty(s.Party)
		party[h.Index].SP = sp
		s.Party = party
	case HolderFieldEntity:
		field := CopyField(s.Field)
		field[h.Index].SP = sp
		s.Field = field
	}
	return s
}
