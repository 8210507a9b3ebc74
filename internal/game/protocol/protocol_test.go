package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/quest-net/questd/internal/game/domain/command"
)

func TestDefaultRegistryNamesFitCap(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	channels := registry.Channels()
	if len(channels) != 9 {
		t.Fatalf("expected nine mutation channels, got %d: %v", len(channels), channels)
	}
	for _, name := range channels {
		if len(name) > MaxChannelNameBytes {
			t.Fatalf("channel %q exceeds %d bytes", name, MaxChannelNameBytes)
		}
	}
	if len(ChannelGameState) > MaxChannelNameBytes {
		t.Fatalf("state channel %q exceeds cap", ChannelGameState)
	}
}

func TestRegisterEnforcesCapInBytes(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(Binding{Channel: "waytoolongname", Action: "x", Command: "a.b"})
	if !errors.Is(err, ErrChannelNameTooLong) {
		t.Fatalf("expected %v, got %v", ErrChannelNameTooLong, err)
	}
	// 5 runes, 10 bytes: fits
	if err := registry.Register(Binding{Channel: "зелье", Action: "use", Command: "a.b"}); err != nil {
		t.Fatalf("expected 10-byte cyrillic name to fit, got %v", err)
	}
	// 8 runes, 13 bytes: over in bytes even though short in runes
	err = registry.Register(Binding{Channel: "зельеabc", Action: "use", Command: "a.b"})
	if !errors.Is(err, ErrChannelNameTooLong) {
		t.Fatalf("expected byte-length enforcement, got %v", err)
	}
}

func TestRegisterRejectsDuplicateBinding(t *testing.T) {
	registry := NewRegistry()
	binding := Binding{Channel: "combatCtrl", Action: "start", Command: "combat.start"}
	if err := registry.Register(binding); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(binding); err == nil {
		t.Fatal("expected duplicate binding error")
	}
}

func TestResolve(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	cmdType, err := registry.Resolve(ChannelCombatCtrl, "start")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cmdType != "combat.start" {
		t.Fatalf("expected combat.start, got %s", cmdType)
	}
	if _, err := registry.Resolve(ChannelCombatCtrl, "pause"); !errors.Is(err, ErrActionUnknown) {
		t.Fatalf("expected %v, got %v", ErrActionUnknown, err)
	}
	if _, err := registry.Resolve("noSuchChan", "start"); !errors.Is(err, ErrChannelUnknown) {
		t.Fatalf("expected %v, got %v", ErrChannelUnknown, err)
	}
}

func TestCommandBuildsPeerCommand(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	payload := json.RawMessage(`{"holder_id":"char-a","item_id":"item-rope"}`)
	cmd, err := registry.Command("game-1", Envelope{
		Channel:   ChannelItemGive,
		Action:    "give",
		RequestID: "req-9",
		ActorID:   "peer-3",
		Payload:   payload,
	})
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if cmd.GameID != "game-1" || cmd.Type != "inventory.give" {
		t.Fatalf("unexpected command %+v", cmd)
	}
	if cmd.ActorType != command.ActorTypePeer || cmd.ActorID != "peer-3" || cmd.RequestID != "req-9" {
		t.Fatalf("expected peer attribution, got %+v", cmd)
	}
	if string(cmd.PayloadJSON) != string(payload) {
		t.Fatalf("expected payload passthrough, got %s", cmd.PayloadJSON)
	}
}
