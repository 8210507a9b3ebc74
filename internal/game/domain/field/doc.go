// Package field implements spawn, despawn, and vitals mutations for
// combatant instances on the field.
//
// Spawned entities copy their template's stats once and then live
// independently; display metadata stays live-joined through the resolver.
// Names disambiguate with a numeric suffix: the first "Goblin" is plain,
// later spawns become "Goblin #2", "Goblin #3", and so on.
package field
