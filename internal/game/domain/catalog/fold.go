package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the catalog fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeItemUpserted,
		EventTypeItemDeleted,
		EventTypeSkillUpserted,
		EventTypeSkillDeleted,
		EventTypeEntityUpserted,
		EventTypeEntityDeleted,
	}
}

// Fold applies a catalog editor event to the snapshot. Upserts replace by id
// or append; deletes remove the entry and leave dangling references to the
// resolver's orphan handling.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeItemUpserted:
		var payload ItemUpsertPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("catalog fold %s: %w", evt.Type, err)
		}
		items := append([]state.ItemTemplate(nil), s.Catalog.Items...)
		s.Catalog.Items = upsertItem(items, payload.Item)

	case EventTypeItemDeleted:
		var payload DeletePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("catalog fold %s: %w", evt.Type, err)
		}
		items := append([]state.ItemTemplate(nil), s.Catalog.Items...)
		for i, t := range items {
			if t.ID == payload.CatalogID {
				items = append(items[:i], items[i+1:]...)
				break
			}
		}
		s.Catalog.Items = items

	case EventTypeSkillUpserted:
		var payload SkillUpsertPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("catalog fold %s: %w", evt.Type, err)
		}
		skills := append([]state.SkillTemplate(nil), s.Catalog.Skills...)
		s.Catalog.Skills = upsertSkill(skills, payload.Skill)

	case EventTypeSkillDeleted:
		var payload DeletePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("catalog fold %s: %w", evt.Type, err)
		}
		skills := append([]state.SkillTemplate(nil), s.Catalog.Skills...)
		for i, t := range skills {
			if t.ID == payload.CatalogID {
				skills = append(skills[:i], skills[i+1:]...)
				break
			}
		}
		s.Catalog.Skills = skills

	case EventTypeEntityUpserted:
		var payload EntityUpsertPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("catalog fold %s: %w", evt.Type, err)
		}
		entities := append([]state.EntityTemplate(nil), s.Catalog.Entities...)
		s.Catalog.Entities = upsertEntity(entities, payload.Entity)

	case EventTypeEntityDeleted:
		var payload DeletePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("catalog fold %s: %w", evt.Type, err)
		}
		entities := append([]state.EntityTemplate(nil), s.Catalog.Entities...)
		for i, t := range entities {
			if t.ID == payload.CatalogID {
				entities = append(entities[:i], entities[i+1:]...)
				break
			}
		}
		s.Catalog.Entities = entities
	}
	return s, nil
}

func upsertItem(items []state.ItemTemplate, item state.ItemTemplate) []state.ItemTemplate {
	for i, t := range items {
		if t.ID == item.ID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func upsertSkill(skills []state.SkillTemplate, skill state.SkillTemplate) []state.SkillTemplate {
	for i, t := range skills {
		if t.ID == skill.ID {
			skills[i] = skill
			return skills
		}
	}
	return append(skills, skill)
}

func upsertEntity(entities []state.EntityTemplate, entity state.EntityTemplate) []state.EntityTemplate {
	for i, t := range entities {
		if t.ID == entity.ID {
			entities[i] = entity
			return entities
		}
	}
	return append(entities, entity)
}
