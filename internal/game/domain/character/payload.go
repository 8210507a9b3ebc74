package character

// AddPayload captures the payload for character.add commands and character.added events.
type AddPayload struct {
	CharacterID string `json:"character_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	MaxHP       int    `json:"max_hp"`
	MaxSP       int    `json:"max_sp"`
}

// RemovePayload captures the payload for character.remove commands and character.removed events.
type RemovePayload struct {
	CharacterID string `json:"character_id"`
}

// UpdatePayload captures the payload for character.update commands and character.updated events.
type UpdatePayload struct {
	CharacterID string            `json:"character_id"`
	Fields      map[string]string `json:"fields"`
}

// VitalsPayload captures the payload for character.set_vitals commands and
// character.vitals_set events. On events HP and SP always carry the resolved
// clamped values so replay is deterministic.
type VitalsPayload struct {
	CharacterID string `json:"character_id"`
	HP          *int   `json:"hp,omitempty"`
	SP          *int   `json:"sp,omitempty"`
}
