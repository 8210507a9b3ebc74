package protocol

import (
	"github.com/quest-net/questd/internal/game/domain/catalog"
	"github.com/quest-net/questd/internal/game/domain/character"
	"github.com/quest-net/questd/internal/game/domain/combat"
	"github.com/quest-net/questd/internal/game/domain/field"
	"github.com/quest-net/questd/internal/game/domain/inventory"
	"github.com/quest-net/questd/internal/game/domain/skills"
	"github.com/quest-net/questd/internal/game/domain/transfer"
)

// Mutation channel names. Every name fits the 12-byte cap.
const (
	ChannelCharUpdate   ChannelName = "charUpdate"
	ChannelEquipUnequip ChannelName = "equipUnequip"
	ChannelItemUse      ChannelName = "itemUse"
	ChannelItemGive     ChannelName = "itemGive"
	ChannelItemTransfer ChannelName = "itemTransfer"
	ChannelSkillAction  ChannelName = "skillAction"
	ChannelEntityCtrl   ChannelName = "entityCtrl"
	ChannelCombatCtrl   ChannelName = "combatCtrl"
	ChannelCatalogEdit  ChannelName = "catalogEdit"
)

// DefaultRegistry builds the full binding table between wire channels and
// domain commands.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	bindings := []Binding{
		{Channel: ChannelCharUpdate, Action: "add", Command: character.CommandTypeAdd},
		{Channel: ChannelCharUpdate, Action: "remove", Command: character.CommandTypeRemove},
		{Channel: ChannelCharUpdate, Action: "update", Command: character.CommandTypeUpdate},
		{Channel: ChannelCharUpdate, Action: "setVitals", Command: character.CommandTypeSetVitals},

		{Channel: ChannelEquipUnequip, Action: "equip", Command: inventory.CommandTypeEquip},
		{Channel: ChannelEquipUnequip, Action: "unequip", Command: inventory.CommandTypeUnequip},

		{Channel: ChannelItemUse, Action: "use", Command: inventory.CommandTypeUse},
		{Channel: ChannelItemGive, Action: "give", Command: inventory.CommandTypeGive},

		{Channel: ChannelItemTransfer, Action: "offer", Command: transfer.CommandTypeOffer},
		{Channel: ChannelItemTransfer, Action: "accept", Command: transfer.CommandTypeAccept},
		{Channel: ChannelItemTransfer, Action: "reject", Command: transfer.CommandTypeReject},

		{Channel: ChannelSkillAction, Action: "grant", Command: skills.CommandTypeGrant},
		{Channel: ChannelSkillAction, Action: "revoke", Command: skills.CommandTypeRevoke},
		{Channel: ChannelSkillAction, Action: "use", Command: skills.CommandTypeUse},

		{Channel: ChannelEntityCtrl, Action: "spawn", Command: field.CommandTypeSpawn},
		{Channel: ChannelEntityCtrl, Action: "despawn", Command: field.CommandTypeDespawn},
		{Channel: ChannelEntityCtrl, Action: "setVitals", Command: field.CommandTypeSetVitals},

		{Channel: ChannelCombatCtrl, Action: "start", Command: combat.CommandTypeStart},
		{Channel: ChannelCombatCtrl, Action: "next", Command: combat.CommandTypeNext},
		{Channel: ChannelCombatCtrl, Action: "previous", Command: combat.CommandTypePrevious},
		{Channel: ChannelCombatCtrl, Action: "end", Command: combat.CommandTypeEnd},

		{Channel: ChannelCatalogEdit, Action: "itemUpsert", Command: catalog.CommandTypeItemUpsert},
		{Channel: ChannelCatalogEdit, Action: "itemDelete", Command: catalog.CommandTypeItemDelete},
		{Channel: ChannelCatalogEdit, Action: "skillUpsert", Command: catalog.CommandTypeSkillUpsert},
		{Channel: ChannelCatalogEdit, Action: "skillDelete", Command: catalog.CommandTypeSkillDelete},
		{Channel: ChannelCatalogEdit, Action: "entityUpsert", Command: catalog.CommandTypeEntityUpsert},
		{Channel: ChannelCatalogEdit, Action: "entityDelete", Command: catalog.CommandTypeEntityDelete},
	}
	for _, binding := range bindings {
		if err := registry.Register(binding); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
