package skills

import "github.com/quest-net/questd/internal/game/state"

// GrantPayload captures the payload for skill.grant commands.
type GrantPayload struct {
	HolderID string `json:"holder_id"`
	SkillID  string `json:"skill_id"`
}

// RevokePayload captures the payload for skill.revoke commands.
type RevokePayload struct {
	HolderID string `json:"holder_id"`
	SkillID  string `json:"skill_id"`
}

// UsePayload captures the payload for skill.use commands.
type UsePayload struct {
	HolderID string `json:"holder_id"`
	SkillID  string `json:"skill_id"`
}

// GrantedPayload captures the payload for skill.granted events. Skill carries
// full uses copied from the template at grant time.
type GrantedPayload struct {
	HolderID string               `json:"holder_id"`
	Skill    state.SkillReference `json:"skill"`
}

// RevokedPayload captures the payload for skill.revoked events.
type RevokedPayload struct {
	HolderID string `json:"holder_id"`
	SkillID  string `json:"skill_id"`
}

// UsedPayload captures the payload for skill.used events. Skill carries the
// post-use remaining count and SP the holder's remaining skill points, so
// replay never re-derives either from the catalog.
type UsedPayload struct {
	HolderID string               `json:"holder_id"`
	Skill    state.SkillReference `json:"skill"`
	SP       int                  `json:"sp"`
}
