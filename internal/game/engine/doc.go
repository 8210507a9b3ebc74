// Package engine wires the domain deciders and folds behind the single-writer
// authority loop.
//
// Every mutation follows the same path: validate the command, decide against
// the current snapshot, journal the accepted events, fold them into the next
// snapshot, and publish that snapshot once. Rejections are logged and dropped;
// they never produce events or broadcasts.
package engine
