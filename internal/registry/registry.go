// Package registry tracks every per-identity cell a container has created
// so that all of them can be reclaimed at once when the container closes.
//
// Registration happens at most once per identity, on its first access;
// Drain happens exactly once, at teardown. Two implementations are
// provided: Locked (a mutex-guarded slice) and LockFree (a Treiber stack).
package registry

import "errors"

// ErrDrained is returned by Register after Drain has run.
var ErrDrained = errors.New("registry: drained")

// Registry is an append-only collection drained exactly once.
// Register is safe for concurrent use; Drain may race with Register,
// and every element is then either returned by Drain or rejected.
type Registry[E any] interface {
	// Register appends e. Returns ErrDrained once Drain has run.
	Register(e E) error

	// Drain removes and returns every registered element and seals the
	// registry. Later calls return nil.
	Drain() []E

	// Len returns the number of registered, not yet drained elements.
	Len() int
}
