// Package resolve joins lightweight references against the catalog.
//
// Resolution is pure and total: a reference whose catalog entry has been
// deleted yields a view with Orphaned set instead of an error, so callers can
// render a fallback. References are compared by id, never by Go identity,
// because every accepted mutation produces fresh copies.
package resolve

import "github.com/quest-net/questd/internal/game/state"

// ItemView is the resolved display and mutation data for an item reference.
type ItemView struct {
	Ref          state.ItemReference
	Name         string
	Description  string
	Image        string
	Uses         *int
	ConsumeOnUse bool
	Stackable    bool
	// Orphaned is set when the catalog no longer contains the referenced entry.
	Orphaned bool
}

// SkillView is the resolved display and mutation data for a skill reference.
type SkillView struct {
	Ref         state.SkillReference
	Name        string
	Description string
	Image       string
	Uses        *int
	SPCost      int
	Damage      int
	Orphaned    bool
}

// EntityView is the resolved view of a spawned field entity. DisplayName is
// the disambiguated instance name; the remaining display metadata stays
// live-joined to the template.
type EntityView struct {
	Instance    state.FieldEntity
	DisplayName string
	Description string
	Image       string
	MaxHP       int
	MaxSP       int
	Orphaned    bool
}

// Item resolves an item reference against the snapshot's catalog.
func Item(s state.Snapshot, ref state.ItemReference) ItemView {
	tmpl, ok := s.Catalog.Item(ref.CatalogID)
	if !ok {
		return ItemView{Ref: ref, Orphaned: true}
	}
	return ItemView{
		Ref:          ref,
		Name:         tmpl.Name,
		Description:  tmpl.Description,
		Image:        tmpl.Image,
		Uses:         tmpl.Uses,
		ConsumeOnUse: tmpl.ConsumeOnUse,
		Stackable:    tmpl.Stackable(),
	}
}

// Skill resolves a skill reference against the snapshot's catalog.
func Skill(s state.Snapshot, ref state.SkillReference) SkillView {
	tmpl, ok := s.Catalog.Skill(ref.CatalogID)
	if !ok {
		return SkillView{Ref: ref, Orphaned: true}
	}
	return SkillView{
		Ref:         ref,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Image:       tmpl.Image,
		Uses:        tmpl.Uses,
		SPCost:      tmpl.SPCost,
		Damage:      tmpl.Damage,
	}
}

// Entity resolves a field entity against the snapshot's catalog. An orphaned
// instance keeps its disambiguated name and instance stats.
func Entity(s state.Snapshot, fe state.FieldEntity) EntityView {
	tmpl, ok := s.Catalog.Entity(fe.CatalogID)
	if !ok {
		return EntityView{Instance: fe, DisplayName: fe.Name, Orphaned: true}
	}
	return EntityView{
		Instance:    fe,
		DisplayName: fe.Name,
		Description: tmpl.Description,
		Image:       tmpl.Image,
		MaxHP:       tmpl.MaxHP,
		MaxSP:       tmpl.MaxSP,
	}
}
