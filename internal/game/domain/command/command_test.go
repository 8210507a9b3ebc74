package command

import (
	"encoding/json"
	"errors"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	err := registry.Register(Definition{
		Type: "character.add",
		ValidatePayload: func(raw json.RawMessage) error {
			var payload struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Name == "bad" {
				return errors.New("name is bad")
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return registry
}

func TestValidateForDecisionNormalizes(t *testing.T) {
	registry := testRegistry(t)
	cmd, err := registry.ValidateForDecision(Command{
		GameID:    "  game-1  ",
		Type:      " character.add ",
		ActorType: "",
		RequestID: " req-1 ",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cmd.GameID != "game-1" || cmd.Type != "character.add" || cmd.RequestID != "req-1" {
		t.Fatalf("expected trimmed fields, got %+v", cmd)
	}
	if cmd.ActorType != ActorTypeAuthority {
		t.Fatalf("expected authority default, got %q", cmd.ActorType)
	}
	if string(cmd.PayloadJSON) != "{}" {
		t.Fatalf("expected empty payload default, got %q", cmd.PayloadJSON)
	}
}

func TestValidateForDecisionRejections(t *testing.T) {
	registry := testRegistry(t)
	cases := []struct {
		name string
		cmd  Command
		want error
	}{
		{"missing game id", Command{Type: "character.add"}, ErrGameIDRequired},
		{"missing type", Command{GameID: "game-1"}, ErrTypeRequired},
		{"unknown type", Command{GameID: "game-1", Type: "nope"}, ErrTypeUnknown},
		{"bad actor type", Command{GameID: "game-1", Type: "character.add", ActorType: "bot"}, ErrActorTypeInvalid},
		{"peer without id", Command{GameID: "game-1", Type: "character.add", ActorType: ActorTypePeer}, ErrActorIDRequired},
		{"invalid json", Command{GameID: "game-1", Type: "character.add", PayloadJSON: []byte("{")}, ErrPayloadInvalid},
	}
	for _, tc := range cases {
		_, err := registry.ValidateForDecision(tc.cmd)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateForDecisionRunsPayloadValidator(t *testing.T) {
	registry := testRegistry(t)
	_, err := registry.ValidateForDecision(Command{
		GameID:      "game-1",
		Type:        "character.add",
		PayloadJSON: []byte(`{"name":"bad"}`),
	})
	if err == nil {
		t.Fatal("expected payload validator error")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	registry := testRegistry(t)
	if err := registry.Register(Definition{Type: "character.add"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := registry.Register(Definition{Type: "   "}); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("expected %v, got %v", ErrTypeRequired, err)
	}
}

func TestListDefinitionsSorted(t *testing.T) {
	registry := testRegistry(t)
	if err := registry.Register(Definition{Type: "combat.start"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	defs := registry.ListDefinitions()
	if len(defs) != 2 {
		t.Fatalf("expected two definitions, got %d", len(defs))
	}
	if defs[0].Type != "character.add" || defs[1].Type != "combat.start" {
		t.Fatalf("expected sorted order, got %+v", defs)
	}
}
