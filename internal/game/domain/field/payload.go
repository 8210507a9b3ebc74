package field

import "github.com/quest-net/questd/internal/game/state"

// SpawnPayload captures the payload for entity.spawn commands.
type SpawnPayload struct {
	EntityID string `json:"entity_id"`
}

// DespawnPayload captures the payload for entity.despawn commands.
type DespawnPayload struct {
	InstanceID string `json:"instance_id"`
}

// VitalsPayload captures the payload for entity.set_vitals commands. Nil
// fields are left untouched.
type VitalsPayload struct {
	InstanceID string `json:"instance_id"`
	HP         *int   `json:"hp,omitempty"`
	SP         *int   `json:"sp,omitempty"`
}

// SpawnedPayload captures the payload for entity.spawned events. Entity is
// the complete instance, including the generated id and disambiguated name,
// so replay reproduces it exactly.
type SpawnedPayload struct {
	Entity state.FieldEntity `json:"entity"`
}

// DespawnedPayload captures the payload for entity.despawned events.
type DespawnedPayload struct {
	InstanceID string `json:"instance_id"`
}

// VitalsSetPayload captures the payload for entity.vitals_set events with
// clamping already applied.
type VitalsSetPayload struct {
	InstanceID string `json:"instance_id"`
	HP         *int   `json:"hp,omitempty"`
	SP         *int   `json:"sp,omitempty"`
}
