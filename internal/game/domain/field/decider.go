package field

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/resolve"
	"github.com/quest-net/questd/internal/game/state"
)

const (
	CommandTypeSpawn     command.Type = "entity.spawn"
	CommandTypeDespawn   command.Type = "entity.despawn"
	CommandTypeSetVitals command.Type = "entity.set_vitals"
	EventTypeSpawned     event.Type   = "entity.spawned"
	EventTypeDespawned   event.Type   = "entity.despawned"
	EventTypeVitalsSet   event.Type   = "entity.vitals_set"

	rejectionCodeCatalogEntryNotFound = "CATALOG_ENTRY_NOT_FOUND"
	rejectionCodeEntityNotFound       = "ENTITY_NOT_FOUND"
	rejectionCodeEntityVitalsEmpty    = "ENTITY_VITALS_EMPTY"
)

// Decider decides field entity commands. Instance ids come from the injected
// generator so replays fold journaled ids instead of minting new ones.
type Decider struct {
	newID func() string
}

// NewDecider builds a field decider around an id generator.
func NewDecider(newID func() string) *Decider {
	return &Decider{newID: newID}
}

// Decide returns the decision for a field entity command against the current
// snapshot.
func (d *Decider) Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeSpawn:
		var payload SpawnPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		tmpl, found := s.Catalog.Entity(strings.TrimSpace(payload.EntityID))
		if !found {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCatalogEntryNotFound,
				Message: fmt.Sprintf("entity %s not found in the catalog", payload.EntityID),
			})
		}

		entity := state.FieldEntity{
			InstanceID: d.newID(),
			CatalogID:  tmpl.ID,
			Name:       disambiguate(tmpl.Name, s.Field),
			HP:         tmpl.MaxHP,
			SP:         tmpl.MaxSP,
			Skills:     spawnSkills(s.Catalog, tmpl.Skills),
		}
		payloadJSON, _ := json.Marshal(SpawnedPayload{Entity: entity})
		return command.Accept(command.NewEvent(cmd, EventTypeSpawned, "entity", entity.InstanceID, payloadJSON, now().UTC()))

	case CommandTypeDespawn:
		var payload DespawnPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		instanceID := strings.TrimSpace(payload.InstanceID)
		if _, ok := s.FieldIndex(instanceID); !ok {
			return rejectNotFound(instanceID)
		}
		payloadJSON, _ := json.Marshal(DespawnedPayload{InstanceID: instanceID})
		return command.Accept(command.NewEvent(cmd, EventTypeDespawned, "entity", instanceID, payloadJSON, now().UTC()))

	case CommandTypeSetVitals:
		var payload VitalsPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		instanceID := strings.TrimSpace(payload.InstanceID)
		idx, ok := s.FieldIndex(instanceID)
		if !ok {
			return rejectNotFound(instanceID)
		}
		if payload.HP == nil && payload.SP == nil {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEntityVitalsEmpty,
				Message: "no vitals to set",
			})
		}
		fe := s.Field[idx]
		// an orphaned instance keeps its current vitals as the ceiling
		maxHP, maxSP := fe.HP, fe.SP
		if view := resolve.Entity(s, fe); !view.Orphaned {
			maxHP, maxSP = view.MaxHP, view.MaxSP
		}
		hp := fe.HP
		if payload.HP != nil {
			hp = clamp(*payload.HP, 0, maxHP)
		}
		sp := fe.SP
		if payload.SP != nil {
			sp = clamp(*payload.SP, 0, maxSP)
		}

		normalized := VitalsSetPayload{InstanceID: instanceID, HP: &hp, SP: &sp}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeVitalsSet, "entity", instanceID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

// disambiguate appends " #N" to base when field entities already carry the
// base name. The first spawn stays plain, the first collision becomes "#2",
// and later spawns continue from the highest suffix ever in play.
func disambiguate(base string, field []state.FieldEntity) string {
	highest := 0
	for _, fe := range field {
		if fe.Name == base {
			if highest < 1 {
				highest = 1
			}
			continue
		}
		rest, ok := strings.CutPrefix(fe.Name, base+" #")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	if highest == 0 {
		return base
	}
	return fmt.Sprintf("%s #%d", base, highest+1)
}

// spawnSkills builds the instance's skill references with full uses copied
// from each skill template. References to missing skills spawn untracked and
// surface as orphans through the resolver.
func spawnSkills(catalog state.Catalog, refs []state.SkillReference) []state.SkillReference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]state.SkillReference, 0, len(refs))
	for _, ref := range refs {
		spawned := state.SkillReference{CatalogID: ref.CatalogID}
		if tmpl, found := catalog.Skill(ref.CatalogID); found {
			spawned.UsesLeft = state.CloneUses(tmpl.Uses)
		}
		out = append(out, spawned)
	}
	return out
}

func rejectDecode(cmd command.Command, err error) command.Decision {
	return command.Reject(command.Rejection{
		Code:    "PAYLOAD_DECODE_FAILED",
		Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
	})
}

func rejectNotFound(instanceID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeEntityNotFound,
		Message: fmt.Sprintf("field entity %s not found", instanceID),
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
