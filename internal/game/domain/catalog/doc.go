// Package catalog implements editor mutations of the shared template library.
//
// Deleting a template orphans any reference that still points at it; the
// resolver is responsible for tolerating that, so deletes never cascade.
package catalog
