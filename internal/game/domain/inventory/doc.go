// Package inventory implements equip, unequip, use, and give item mutations.
//
// Stacking rule: a slot's count exceeds one only for items without use
// tracking. Unequip always lands in a fresh slot, even when an identical
// stackable item already exists, so a copy's remaining uses can never be
// silently combined with another copy's.
package inventory
