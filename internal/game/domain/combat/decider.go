package combat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

const (
	CommandTypeStart    command.Type = "combat.start"
	CommandTypeNext     command.Type = "combat.next"
	CommandTypePrevious command.Type = "combat.previous"
	CommandTypeEnd      command.Type = "combat.end"
	EventTypeStarted    event.Type   = "combat.started"
	EventTypeAdvanced   event.Type   = "combat.advanced"
	EventTypeReverted   event.Type   = "combat.reverted"
	EventTypeEnded      event.Type   = "combat.ended"

	rejectionCodeCombatAlreadyActive = "COMBAT_ALREADY_ACTIVE"
	rejectionCodeCombatNotActive     = "COMBAT_NOT_ACTIVE"
	rejectionCodeCombatSideInvalid   = "COMBAT_SIDE_INVALID"
	rejectionCodeCombatTurnAtFloor   = "COMBAT_TURN_AT_FLOOR"
)

// Decide returns the decision for a combat command against the current snapshot.
//
// Requests arriving while the machine is not in the expected state are
// rejections, never fatal errors.
func Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeStart:
		if s.Combat.Active {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCombatAlreadyActive,
				Message: "combat already active",
			})
		}
		var payload StartPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return command.Reject(command.Rejection{
				Code:    "PAYLOAD_DECODE_FAILED",
				Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
			})
		}
		side := state.Side(payload.Side)
		if !side.IsValid() {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCombatSideInvalid,
				Message: fmt.Sprintf("initiative side %q is not party or enemies", payload.Side),
			})
		}
		payloadJSON, _ := json.Marshal(StartPayload{Side: string(side)})
		return command.Accept(command.NewEvent(cmd, EventTypeStarted, "combat", cmd.GameID, payloadJSON, now().UTC()))

	case CommandTypeNext:
		if !s.Combat.Active {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCombatNotActive,
				Message: "combat is not active",
			})
		}
		payloadJSON, _ := json.Marshal(TurnPayload{Turn: s.Combat.Turn + 1})
		return command.Accept(command.NewEvent(cmd, EventTypeAdvanced, "combat", cmd.GameID, payloadJSON, now().UTC()))

	case CommandTypePrevious:
		if !s.Combat.Active {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCombatNotActive,
				Message: "combat is not active",
			})
		}
		if s.Combat.Turn <= 1 {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCombatTurnAtFloor,
				Message: "turn counter is already at 1",
			})
		}
		payloadJSON, _ := json.Marshal(TurnPayload{Turn: s.Combat.Turn - 1})
		return command.Accept(command.NewEvent(cmd, EventTypeReverted, "combat", cmd.GameID, payloadJSON, now().UTC()))

	case CommandTypeEnd:
		if !s.Combat.Active {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCombatNotActive,
				Message: "combat is not active",
			})
		}
		payloadJSON, _ := json.Marshal(EndPayload{})
		return command.Accept(command.NewEvent(cmd, EventTypeEnded, "combat", cmd.GameID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}
