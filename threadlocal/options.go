package threadlocal

import "log/slog"

// RegistryKind selects how a ThreadLocal tracks its cells for teardown.
type RegistryKind int

const (
	// RegistryLocked guards a slice with a mutex. Default.
	RegistryLocked RegistryKind = iota
	// RegistryLockFree pushes cells onto a CAS-swapped stack; first access
	// never blocks on a lock.
	RegistryLockFree
)

// String returns a stable label for logs and metrics.
func (k RegistryKind) String() string {
	switch k {
	case RegistryLockFree:
		return "lockfree"
	default:
		return "locked"
	}
}

// Metrics exposes container-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Init is called once per identity, after its first copy is created.
	// Live copies = Init calls - Reclaim totals.
	Init()
	// Hit is called on every access that finds an existing copy.
	Hit()
	// Reclaim reports how many copies Close dropped.
	Reclaim(n int)
}

// Options configures a ThreadLocal. Zero values are safe;
// defaults are applied by the constructors:
//   - Registry zero => RegistryLocked
//   - nil Metrics   => NoopMetrics
//   - nil Logger    => discard
type Options[T any] struct {
	// Registry selects the teardown bookkeeping implementation.
	Registry RegistryKind

	// Drop is called once per copy during Close. If nil and T implements
	// io.Closer, Close is called instead and errors are logged.
	Drop func(v T)

	// Observability
	Metrics Metrics
	Logger  *slog.Logger
}

func (o Options[T]) withDefaults() Options[T] {
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
