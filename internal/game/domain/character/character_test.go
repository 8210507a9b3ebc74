package character

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/state"
)

func fixedNow() time.Time {
	return time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func decideCmd(t *testing.T, cmdType command.Type, payload any) command.Command {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return command.Command{
		GameID:      "game-1",
		Type:        cmdType,
		ActorType:   command.ActorTypeAuthority,
		PayloadJSON: raw,
	}
}

func acceptAndFold(t *testing.T, s state.Snapshot, cmd command.Command) state.Snapshot {
	t.Helper()
	decision := Decide(s, cmd, fixedNow)
	if len(decision.Rejections) > 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	if len(decision.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(decision.Events))
	}
	next, err := Fold(s, decision.Events[0])
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	return next
}

func TestAddStartsAtFullVitals(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	next := acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-a", Name: "  Ava  ", MaxHP: 12, MaxSP: 6,
	}))

	if len(next.Party) != 1 {
		t.Fatalf("expected one character, got %d", len(next.Party))
	}
	ch := next.Party[0]
	if ch.Name != "Ava" {
		t.Fatalf("expected trimmed name, got %q", ch.Name)
	}
	if ch.HP != 12 || ch.SP != 6 {
		t.Fatalf("expected full vitals, got hp=%d sp=%d", ch.HP, ch.SP)
	}
	if len(s.Party) != 0 {
		t.Fatal("add mutated the prior snapshot")
	}
}

func TestAddRejectsDuplicateAndEmptyName(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-a", Name: "Ava", MaxHP: 10,
	}))

	decision := Decide(s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-a", Name: "Other",
	}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeCharacterAlreadyExists {
		t.Fatalf("expected %s, got %+v", rejectionCodeCharacterAlreadyExists, decision.Rejections)
	}

	decision = Decide(s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-b", Name: "   ",
	}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeCharacterNameEmpty {
		t.Fatalf("expected %s, got %+v", rejectionCodeCharacterNameEmpty, decision.Rejections)
	}
}

func TestRemoveDropsCharacter(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{CharacterID: "char-a", Name: "Ava"}))
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{CharacterID: "char-b", Name: "Bo"}))

	next := acceptAndFold(t, s, decideCmd(t, CommandTypeRemove, RemovePayload{CharacterID: "char-a"}))
	if len(next.Party) != 1 || next.Party[0].ID != "char-b" {
		t.Fatalf("expected only char-b, got %+v", next.Party)
	}

	decision := Decide(next, decideCmd(t, CommandTypeRemove, RemovePayload{CharacterID: "char-a"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeCharacterNotFound {
		t.Fatalf("expected %s, got %+v", rejectionCodeCharacterNotFound, decision.Rejections)
	}
}

func TestUpdateOnlyTouchesNamedFields(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-a", Name: "Ava", Description: "scout", MaxHP: 10,
	}))
	next := acceptAndFold(t, s, decideCmd(t, CommandTypeUpdate, UpdatePayload{
		CharacterID: "char-a", Fields: map[string]string{"name": "Avalyn"},
	}))

	ch := next.Party[0]
	if ch.Name != "Avalyn" {
		t.Fatalf("expected renamed character, got %q", ch.Name)
	}
	if ch.Description != "scout" || ch.MaxHP != 10 {
		t.Fatalf("update touched unrelated fields: %+v", ch)
	}
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{CharacterID: "char-a", Name: "Ava"}))

	decision := Decide(s, decideCmd(t, CommandTypeUpdate, UpdatePayload{
		CharacterID: "char-a", Fields: map[string]string{"max_hp": "99"},
	}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeCharacterUpdateFieldInvalid {
		t.Fatalf("expected %s, got %+v", rejectionCodeCharacterUpdateFieldInvalid, decision.Rejections)
	}

	decision = Decide(s, decideCmd(t, CommandTypeUpdate, UpdatePayload{CharacterID: "char-a"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeCharacterUpdateEmpty {
		t.Fatalf("expected %s, got %+v", rejectionCodeCharacterUpdateEmpty, decision.Rejections)
	}
}

func TestSetVitalsClamps(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-a", Name: "Ava", MaxHP: 10, MaxSP: 4,
	}))
	next := acceptAndFold(t, s, decideCmd(t, CommandTypeSetVitals, VitalsPayload{
		CharacterID: "char-a", HP: intPtr(-3), SP: intPtr(99),
	}))

	ch := next.Party[0]
	if ch.HP != 0 || ch.SP != 4 {
		t.Fatalf("expected clamped vitals hp=0 sp=4, got hp=%d sp=%d", ch.HP, ch.SP)
	}
	if s.Party[0].HP != 10 {
		t.Fatal("set vitals mutated the prior snapshot")
	}
}

func TestSetVitalsPartialUpdate(t *testing.T) {
	s := state.Snapshot{GameID: "game-1"}
	s = acceptAndFold(t, s, decideCmd(t, CommandTypeAdd, AddPayload{
		CharacterID: "char-a", Name: "Ava", MaxHP: 10, MaxSP: 4,
	}))
	next := acceptAndFold(t, s, decideCmd(t, CommandTypeSetVitals, VitalsPayload{
		CharacterID: "char-a", HP: intPtr(7),
	}))

	ch := next.Party[0]
	if ch.HP != 7 || ch.SP != 4 {
		t.Fatalf("expected hp=7 sp untouched, got hp=%d sp=%d", ch.HP, ch.SP)
	}

	decision := Decide(next, decideCmd(t, CommandTypeSetVitals, VitalsPayload{CharacterID: "char-a"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeCharacterVitalsEmpty {
		t.Fatalf("expected %s, got %+v", rejectionCodeCharacterVitalsEmpty, decision.Rejections)
	}
}
