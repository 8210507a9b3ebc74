package catalog

import "github.com/quest-net/questd/internal/game/state"

// ItemUpsertPayload captures the payload for catalog.item_upsert commands and
// catalog.item_upserted events.
type ItemUpsertPayload struct {
	Item state.ItemTemplate `json:"item"`
}

// SkillUpsertPayload captures the payload for catalog.skill_upsert commands
// and catalog.skill_upserted events.
type SkillUpsertPayload struct {
	Skill state.SkillTemplate `json:"skill"`
}

// EntityUpsertPayload captures the payload for catalog.entity_upsert commands
// and catalog.entity_upserted events.
type EntityUpsertPayload struct {
	Entity state.EntityTemplate `json:"entity"`
}

// DeletePayload captures the payload for catalog delete commands and events.
type DeletePayload struct {
	CatalogID string `json:"catalog_id"`
}
