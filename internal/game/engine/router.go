package engine

import (
	"time"

	"github.com/quest-net/questd/internal/game/domain/catalog"
	"github.com/quest-net/questd/internal/game/domain/character"
	"github.com/quest-net/questd/internal/game/domain/combat"
	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/domain/field"
	"github.com/quest-net/questd/internal/game/domain/inventory"
	"github.com/quest-net/questd/internal/game/domain/skills"
	"github.com/quest-net/questd/internal/game/domain/transfer"
	"github.com/quest-net/questd/internal/game/state"
)

// DeciderFunc decides a command against a snapshot.
type DeciderFunc func(state.Snapshot, command.Command, func() time.Time) command.Decision

// FoldFunc applies an event to a snapshot.
type FoldFunc func(state.Snapshot, event.Event) (state.Snapshot, error)

// Router dispatches commands to domain deciders and events to domain folds.
type Router struct {
	deciders map[command.Type]DeciderFunc
	folds    map[event.Type]FoldFunc
}

// NewRouter wires every domain into one dispatch table. The id generator
// feeds the deciders that mint instance and transfer ids.
func NewRouter(newID func() string) *Router {
	r := &Router{
		deciders: make(map[command.Type]DeciderFunc),
		folds:    make(map[event.Type]FoldFunc),
	}

	r.decide(character.Decide,
		character.CommandTypeAdd, character.CommandTypeRemove,
		character.CommandTypeUpdate, character.CommandTypeSetVitals)
	r.decide(catalog.Decide,
		catalog.CommandTypeItemUpsert, catalog.CommandTypeItemDelete,
		catalog.CommandTypeSkillUpsert, catalog.CommandTypeSkillDelete,
		catalog.CommandTypeEntityUpsert, catalog.CommandTypeEntityDelete)
	r.decide(inventory.Decide,
		inventory.CommandTypeEquip, inventory.CommandTypeUnequip,
		inventory.CommandTypeUse, inventory.CommandTypeGive)
	r.decide(skills.Decide,
		skills.CommandTypeGrant, skills.CommandTypeRevoke, skills.CommandTypeUse)
	r.decide(combat.Decide,
		combat.CommandTypeStart, combat.CommandTypeNext,
		combat.CommandTypePrevious, combat.CommandTypeEnd)

	fieldDecider := field.NewDecider(newID)
	r.decide(fieldDecider.Decide,
		field.CommandTypeSpawn, field.CommandTypeDespawn, field.CommandTypeSetVitals)
	transferDecider := transfer.NewDecider(newID)
	r.decide(transferDecider.Decide,
		transfer.CommandTypeOffer, transfer.CommandTypeAccept, transfer.CommandTypeReject)

	r.fold(character.Fold, character.FoldHandledTypes()...)
	r.fold(catalog.Fold, catalog.FoldHandledTypes()...)
	r.fold(inventory.Fold, inventory.FoldHandledTypes()...)
	r.fold(skills.Fold, skills.FoldHandledTypes()...)
	r.fold(combat.Fold, combat.FoldHandledTypes()...)
	r.fold(field.Fold, field.FoldHandledTypes()...)
	r.fold(transfer.Fold, transfer.FoldHandledTypes()...)

	return r
}

func (r *Router) decide(fn DeciderFunc, types ...command.Type) {
	for _, t := range types {
		r.deciders[t] = fn
	}
}

func (r *Router) fold(fn FoldFunc, types ...event.Type) {
	for _, t := range types {
		r.folds[t] = fn
	}
}

// Decide dispatches the command to its domain decider.
func (r *Router) Decide(s state.Snapshot, cmd command.Command, now func() time.Time) (command.Decision, bool) {
	fn, ok := r.deciders[cmd.Type]
	if !ok {
		return command.Decision{}, false
	}
	return fn(s, cmd, now), true
}

// Fold dispatches the event to its domain fold. Unroutable events are
// returned unchanged so journal replay tolerates retired types.
func (r *Router) Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	fn, ok := r.folds[evt.Type]
	if !ok {
		return s, nil
	}
	return fn(s, evt)
}
