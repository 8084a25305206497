package threadlocal

// cell is one identity's private copy. The slot stores a pointer to it for
// lookups by the owner; the registry stores the same pointer so Close can
// reclaim it after the owner is gone.
type cell[T any] struct {
	val T

	// owner is the identity that created the cell; used in teardown logs.
	owner uint64
}
