// Package transfer implements two-phase item transfers between holders.
//
// An offer leaves the item with the sender until the recipient accepts.
// Acceptance moves the item in a single fold, so no broadcast snapshot ever
// shows the item in both inventories or in neither.
package transfer
