// Package registry owns the hotel's room occupancy state.
//
// A Registry holds one Room per room number and an append-only list of
// StayRecord entries. Every successful check-in or check-out writes the whole
// Snapshot back through the injected Store. Write failures never fail the
// operation: the change stays applied in memory and the failure is handed to
// the registry's warning handler.
//
// The package performs no locking; a Registry is meant to be driven by a
// single goroutine in a single process.
package registry
