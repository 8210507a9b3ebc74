// Package combat implements the combat turn state machine.
//
// The machine moves Idle -> Active -> Idle. The turn counter is flat: next
// increments without bound, previous floors at one, and which side's
// combatants act on a given turn is a presentation convention layered on top.
package combat
