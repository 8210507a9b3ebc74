package state

// CloneUses copies an optional use counter so two snapshots never share the
// underlying int.
func CloneUses(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// CloneItemRef deep-copies an item reference.
func CloneItemRef(ref ItemReference) ItemReference {
	ref.UsesLeft = CloneUses(ref.UsesLeft)
	return ref
}

// CloneSkillRef deep-copies a skill reference.
func CloneSkillRef(ref SkillReference) SkillReference {
	ref.UsesLeft = CloneUses(ref.UsesLeft)
	return ref
}

// CloneSlots deep-copies an inventory slice.
func CloneSlots(slots []InventorySlot) []InventorySlot {
	if slots == nil {
		return nil
	}
	out := make([]InventorySlot, len(slots))
	for i, slot := range slots {
		slot.Item = CloneItemRef(slot.Item)
		out[i] = slot
	}
	return out
}

// CloneItemRefs deep-copies an equipment slice.
func CloneItemRefs(refs []ItemReference) []ItemReference {
	if refs == nil {
		return nil
	}
	out := make([]ItemReference, len(refs))
	for i, ref := range refs {
		out[i] = CloneItemRef(ref)
	}
	return out
}

// CloneSkillRefs deep-copies a skills slice.
func CloneSkillRefs(refs []SkillReference) []SkillReference {
	if refs == nil {
		return nil
	}
	out := make([]SkillReference, len(refs))
	for i, ref := range refs {
		out[i] = CloneSkillRef(ref)
	}
	return out
}

// CopyParty returns a shallow copy of the party slice so one element can be
// replaced without touching the prior snapshot.
func CopyParty(party []Character) []Character {
	return append([]Character(nil), party...)
}

// CopyField returns a shallow copy of the field slice.
func CopyField(field []FieldEntity) []FieldEntity {
	return append([]FieldEntity(nil), field...)
}

// CopyTransfers returns a shallow copy of the pending-transfer slice.
func CopyTransfers(transfers []PendingTransfer) []PendingTransfer {
	return append([]PendingTransfer(nil), transfers...)
}
