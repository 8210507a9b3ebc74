package engine

import (
	"github.com/quest-net/questd/internal/game/domain/catalog"
	"github.com/quest-net/questd/internal/game/domain/character"
	"github.com/quest-net/questd/internal/game/domain/combat"
	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/domain/field"
	"github.com/quest-net/questd/internal/game/domain/inventory"
	"github.com/quest-net/questd/internal/game/domain/skills"
	"github.com/quest-net/questd/internal/game/domain/transfer"
)

// Registries bundles the command and event registries.
type Registries struct {
	Commands *command.Registry
	Events   *event.Registry
}

// BuildRegistries registers every domain module into one validated registry
// pair. This is the single bootstrap point consumed by the authority.
func BuildRegistries() (Registries, error) {
	commandRegistry := command.NewRegistry()
	eventRegistry := event.NewRegistry()

	commandModules := []func(*command.Registry) error{
		character.RegisterCommands,
		catalog.RegisterCommands,
		inventory.RegisterCommands,
		skills.RegisterCommands,
		combat.RegisterCommands,
		field.RegisterCommands,
		transfer.RegisterCommands,
	}
	for _, register := range commandModules {
		if err := register(commandRegistry); err != nil {
			return Registries{}, err
		}
	}

	eventModules := []func(*event.Registry) error{
		character.RegisterEvents,
		catalog.RegisterEvents,
		inventory.RegisterEvents,
		skills.RegisterEvents,
		combat.RegisterEvents,
		field.RegisterEvents,
		transfer.RegisterEvents,
	}
	for _, register := range eventModules {
		if err := register(eventRegistry); err != nil {
			return Registries{}, err
		}
	}

	return Registries{Commands: commandRegistry, Events: eventRegistry}, nil
}
