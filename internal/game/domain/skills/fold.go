package skills

import (
	"encoding/json"
	"fmt"

	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

// FoldHandledTypes returns the event types handled by the skills fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		EventTypeGranted,
		EventTypeRevoked,
		EventTypeUsed,
	}
}

// Fold applies a skill event to the snapshot. A missing holder makes the
// event a no-op so replay never fails on state that later events removed.
func Fold(s state.Snapshot, evt event.Event) (state.Snapshot, error) {
	switch evt.Type {
	case EventTypeGranted:
		var payload GrantedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("skills fold %s: %w", evt.Type, err)
		}
		holder, ok := s.FindHolder(payload.HolderID)
		if !ok {
			return s, nil
		}
		refs := s.HolderSkills(holder)
		if knowsSkill(refs, payload.Skill.CatalogID) {
			return s, nil
		}
		s = s.WithHolderSkills(holder, append(state.CloneSkillRefs(refs), state.CloneSkillRef(payload.Skill)))

	case EventTypeRevoked:
		var payload RevokedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("skills fold %s: %w", evt.Type, err)
		}
		holder, ok := s.FindHolder(payload.HolderID)
		if !ok {
			return s, nil
		}
		refs := state.CloneSkillRefs(s.HolderSkills(holder))
		for i, ref := range refs {
			if ref.CatalogID == payload.SkillID {
				refs = append(refs[:i], refs[i+1:]...)
				break
			}
		}
		s = s.WithHolderSkills(holder, refs)

	case EventTypeUsed:
		var payload UsedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return s, fmt.Errorf("skills fold %s: %w", evt.Type, err)
		}
		holder, ok := s.FindHolder(payload.HolderID)
		if !ok {
			return s, nil
		}
		refs := state.CloneSkillRefs(s.HolderSkills(holder))
		for i, ref := range refs {
			if ref.CatalogID == payload.Skill.CatalogID {
				refs[i] = state.CloneSkillRef(payload.Skill)
				break
			}
		}
		s = s.WithHolderSkills(holder, refs)
		s = s.WithHolderSP(holder, payload.SP)
	}
	return s, nil
}
