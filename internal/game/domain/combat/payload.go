package combat

// StartPayload captures the payload for combat.start commands and combat.started events.
type StartPayload struct {
	Side string `json:"side"`
}

// TurnPayload captures the payload for combat.advanced and combat.reverted
// events; Turn is the resulting turn number so replay is deterministic.
type TurnPayload struct {
	Turn int `json:"turn"`
}

// EndPayload captures the payload for combat.end commands and combat.ended events.
type EndPayload struct{}
