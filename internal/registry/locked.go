package registry

import "sync"

// Locked is a mutex-guarded growable slice. The lock is held only for an
// append or a slice swap; no caller code runs under it.
type Locked[E any] struct {
	mu      sync.Mutex
	items   []E
	drained bool
}

// NewLocked returns an empty Locked registry.
func NewLocked[E any]() *Locked[E] { return &Locked[E]{} }

// Register appends e.
func (r *Locked[E]) Register(e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drained {
		return ErrDrained
	}
	r.items = append(r.items, e)
	return nil
}

// Drain returns all elements and seals the registry.
func (r *Locked[E]) Drain() []E {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	r.drained = true
	return out
}

// Len returns the number of registered elements.
func (r *Locked[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

var _ Registry[int] = (*Locked[int])(nil)
