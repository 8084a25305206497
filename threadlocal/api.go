package threadlocal

// ThreadLocal holds one independent copy of a T per execution identity
// (goroutine by default; OS thread under the threadlocal_osthread build tag).
// All methods are safe for concurrent use by multiple goroutines, but each
// caller only ever observes its own copy.
//
// Copies are not freed when their goroutine exits. They live until Close.
type ThreadLocal[T any] interface {
	// Get returns a pointer to the caller's copy, creating it on first use.
	// Every call from the same identity returns the same pointer.
	// The pointer must not be handed to other goroutines or kept past Close.
	Get() *T

	// Value returns a copy of the caller's value (shorthand for *Get()).
	Value() T

	// Set overwrites the caller's copy with v.
	Set(v T)

	// Replace installs v as the caller's copy and returns the previous value.
	Replace(v T) T

	// Len returns the number of identities that have a copy.
	Len() int

	// Close reclaims every copy: it runs Options.Drop (or io.Closer.Close)
	// once per copy and releases the underlying key. A second Close returns
	// ErrClosed; any other call after Close panics.
	Close() error
}
