package registry

import (
	"sync/atomic"

	"github.com/IvanBrykalov/threadlocal/internal/util"
)

// LockFree is a singly linked stack whose head is swapped with CAS.
// Nodes are never reused, and the garbage collector keeps a node alive
// while any CAS loop still holds it, so there is no ABA hazard.
type LockFree[E any] struct {
	head atomic.Pointer[node[E]]
	_    util.CacheLinePad
	n    util.PaddedAtomicInt64

	// sealed is installed as head by Drain; its address marks the
	// registry as closed to further Register calls.
	sealed node[E]
}

type node[E any] struct {
	val  E
	next *node[E]
}

// NewLockFree returns an empty LockFree registry.
func NewLockFree[E any]() *LockFree[E] { return &LockFree[E]{} }

// Register pushes e onto the stack. The count is raised before the node
// becomes reachable, so a concurrent Drain never subtracts an element that
// was not yet counted.
func (r *LockFree[E]) Register(e E) error {
	n := &node[E]{val: e}
	r.n.Add(1)
	for {
		h := r.head.Load()
		if h == &r.sealed {
			r.n.Add(-1)
			return ErrDrained
		}
		n.next = h
		if r.head.CompareAndSwap(h, n) {
			return nil
		}
	}
}

// Drain detaches the whole stack in one swap and seals the registry.
// Elements come back newest first.
func (r *LockFree[E]) Drain() []E {
	h := r.head.Swap(&r.sealed)
	if h == &r.sealed {
		return nil
	}
	var out []E
	for n := h; n != nil; n = n.next {
		out = append(out, n.val)
	}
	r.n.Add(-int64(len(out)))
	return out
}

// Len returns the number of registered elements. It may include a
// concurrent Register that has not yet completed, and is never negative.
func (r *LockFree[E]) Len() int { return int(r.n.Load()) }

var _ Registry[int] = (*LockFree[int])(nil)
