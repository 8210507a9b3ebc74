package skills

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/resolve"
	"github.com/quest-net/questd/internal/game/state"
)

const (
	CommandTypeGrant  command.Type = "skill.grant"
	CommandTypeRevoke command.Type = "skill.revoke"
	CommandTypeUse    command.Type = "skill.use"
	EventTypeGranted  event.Type   = "skill.granted"
	EventTypeRevoked  event.Type   = "skill.revoked"
	EventTypeUsed     event.Type   = "skill.used"

	rejectionCodeHolderNotFound       = "HOLDER_NOT_FOUND"
	rejectionCodeCatalogEntryNotFound = "CATALOG_ENTRY_NOT_FOUND"
	rejectionCodeSkillAlreadyKnown    = "SKILL_ALREADY_KNOWN"
	rejectionCodeSkillNotKnown        = "SKILL_NOT_KNOWN"
	rejectionCodeSkillUsesExhausted   = "SKILL_USES_EXHAUSTED"
	rejectionCodeSPInsufficient       = "SKILL_SP_INSUFFICIENT"
)

// Decide returns the decision for a skill command against the current
// snapshot. Grants deduplicate by catalog id: a holder knows a skill at most
// once regardless of how many times it is granted.
func Decide(s state.Snapshot, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeGrant:
		var payload GrantPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		holderID := strings.TrimSpace(payload.HolderID)
		holder, ok := s.FindHolder(holderID)
		if !ok {
			return rejectHolderNotFound(holderID)
		}
		skillID := strings.TrimSpace(payload.SkillID)
		view := resolve.Skill(s, state.SkillReference{CatalogID: skillID})
		if view.Orphaned {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCatalogEntryNotFound,
				Message: fmt.Sprintf("skill %s not found in the catalog", payload.SkillID),
			})
		}
		if knowsSkill(s.HolderSkills(holder), skillID) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSkillAlreadyKnown,
				Message: fmt.Sprintf("holder %s already knows skill %s", holderID, skillID),
			})
		}

		normalized := GrantedPayload{
			HolderID: holderID,
			Skill:    state.SkillReference{CatalogID: skillID, UsesLeft: state.CloneUses(view.Uses)},
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeGranted, "skill", skillID, payloadJSON, now().UTC()))

	case CommandTypeRevoke:
		var payload RevokePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		holderID := strings.TrimSpace(payload.HolderID)
		holder, ok := s.FindHolder(holderID)
		if !ok {
			return rejectHolderNotFound(holderID)
		}
		skillID := strings.TrimSpace(payload.SkillID)
		if !knowsSkill(s.HolderSkills(holder), skillID) {
			return rejectNotKnown(holderID, skillID)
		}

		normalized := RevokedPayload{HolderID: holderID, SkillID: skillID}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeRevoked, "skill", skillID, payloadJSON, now().UTC()))

	case CommandTypeUse:
		var payload UsePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return rejectDecode(cmd, err)
		}
		holderID := strings.TrimSpace(payload.HolderID)
		holder, ok := s.FindHolder(holderID)
		if !ok {
			return rejectHolderNotFound(holderID)
		}
		skillID := strings.TrimSpace(payload.SkillID)
		ref, known := findSkill(s.HolderSkills(holder), skillID)
		if !known {
			return rejectNotKnown(holderID, skillID)
		}
		view := resolve.Skill(s, ref)
		if view.Orphaned {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCatalogEntryNotFound,
				Message: fmt.Sprintf("skill %s no longer exists in the catalog", skillID),
			})
		}
		if ref.UsesLeft != nil && *ref.UsesLeft <= 0 {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSkillUsesExhausted,
				Message: fmt.Sprintf("skill %s has no uses left", skillID),
			})
		}
		sp := s.HolderSP(holder)
		if sp < view.SPCost {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeSPInsufficient,
				Message: fmt.Sprintf("skill %s costs %d sp, holder has %d", skillID, view.SPCost, sp),
			})
		}

		next := state.CloneSkillRef(ref)
		if next.UsesLeft != nil {
			remaining := *next.UsesLeft - 1
			next.UsesLeft = &remaining
		}
		normalized := UsedPayload{
			HolderID: holderID,
			Skill:    next,
			SP:       sp - view.SPCost,
		}
		payloadJSON, _ := json.Marshal(normalized)
		return command.Accept(command.NewEvent(cmd, EventTypeUsed, "skill", skillID, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func knowsSkill(refs []state.SkillReference, skillID string) bool {
	_, known := findSkill(refs, skillID)
	return known
}

func findSkill(refs []state.SkillReference, skillID string) (state.SkillReference, bool) {
	for _, ref := range refs {
		if ref.CatalogID == skillID {
			return ref, true
		}
	}
	return state.SkillReference{}, false
}

func rejectDecode(cmd command.Command, err error) command.Decision {
	return command.Reject(command.Rejection{
		Code:    "PAYLOAD_DECODE_FAILED",
		Message: fmt.Sprintf("decode %s payload: %v", cmd.Type, err),
	})
}

func rejectHolderNotFound(holderID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeHolderNotFound,
		Message: fmt.Sprintf("holder %s not found", holderID),
	})
}

func rejectNotKnown(holderID, skillID string) command.Decision {
	return command.Reject(command.Rejection{
		Code:    rejectionCodeSkillNotKnown,
		Message: fmt.Sprintf("holder %s does not know skill %s", holderID, skillID),
	})
}
