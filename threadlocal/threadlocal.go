package threadlocal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/IvanBrykalov/threadlocal/internal/registry"
	"github.com/IvanBrykalov/threadlocal/internal/slot"
)

var (
	// ErrResourceExhausted is returned (wrapped) when no thread-local key
	// can be allocated. Retrying without closing other containers will
	// not help.
	ErrResourceExhausted = slot.ErrResourceExhausted

	// ErrClosed is returned by a second Close, and is the panic value for
	// any other use after Close.
	ErrClosed = errors.New("threadlocal: closed")
)

// Cloner is implemented by payloads that must not share state between
// copies made from a Const seed (e.g. types holding slices or maps).
type Cloner[T any] interface {
	Clone() T
}

// threadLocal composes a slot, a registry and a value source.
type threadLocal[T any] struct {
	// slot is nil until the first access for Const containers.
	slot     atomic.Pointer[slot.Slot]
	slotOnce sync.Once
	slotErr  error

	reg    registry.Registry[*cell[T]]
	closed atomic.Bool

	// Exactly one of initFn / seed is the value source.
	initFn func() T
	seed   T
	seeded bool

	opt Options[T]
}

// New constructs a ThreadLocal whose copies are produced by fn, called
// at most once per identity on its first access. It fails only when no
// key can be allocated (errors.Is(err, ErrResourceExhausted)).
// A nil fn panics.
func New[T any](fn func() T, opt Options[T]) (ThreadLocal[T], error) {
	if fn == nil {
		panic("threadlocal: nil initializer")
	}
	t := newThreadLocal(opt)
	t.initFn = fn

	s, err := slot.Create()
	if err != nil {
		return nil, fmt.Errorf("threadlocal: allocate key: %w", err)
	}
	t.slot.Store(s)
	t.opt.Logger.Debug("threadlocal: key allocated",
		slog.Uint64("key", uint64(s.Key())),
		slog.String("backend", slot.Backend),
		slog.String("registry", t.opt.Registry.String()))
	return t, nil
}

// Default is New with an initializer returning the zero T.
func Default[T any](opt Options[T]) (ThreadLocal[T], error) {
	return New(func() T {
		var zero T
		return zero
	}, opt)
}

// Const constructs a ThreadLocal seeded with v, suitable for package-level
// variables. Each identity's first access receives its own copy of v:
// v.Clone() if T implements Cloner[T], a plain Go value copy otherwise.
//
// The key is allocated on first access. If that allocation fails the
// access panics with an error wrapping ErrResourceExhausted.
func Const[T any](v T, opt Options[T]) ThreadLocal[T] {
	t := newThreadLocal(opt)
	t.seed = v
	t.seeded = true
	return t
}

func newThreadLocal[T any](opt Options[T]) *threadLocal[T] {
	opt = opt.withDefaults()
	t := &threadLocal[T]{opt: opt}
	switch opt.Registry {
	case RegistryLockFree:
		t.reg = registry.NewLockFree[*cell[T]]()
	default:
		t.reg = registry.NewLocked[*cell[T]]()
	}
	return t
}

// ---- ThreadLocal[T] implementation ----

// Get returns the caller's copy, creating it on first access.
func (t *threadLocal[T]) Get() *T {
	if t.closed.Load() {
		panic(ErrClosed)
	}
	s := t.key()
	if p := s.Get(); p != nil {
		t.opt.Metrics.Hit()
		return &(*cell[T])(p).val
	}
	return t.initCell(s)
}

// Value returns a copy of the caller's value.
func (t *threadLocal[T]) Value() T { return *t.Get() }

// Set overwrites the caller's copy.
func (t *threadLocal[T]) Set(v T) { *t.Get() = v }

// Replace installs v and returns the previous value.
func (t *threadLocal[T]) Replace(v T) T {
	p := t.Get()
	old := *p
	*p = v
	return old
}

// Len returns the number of identities that have a copy.
func (t *threadLocal[T]) Len() int { return t.reg.Len() }

// Close drains the registry, drops every copy, then releases the key.
// The key is released even if a drop hook panics.
func (t *threadLocal[T]) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	s := t.slot.Load()
	if s != nil {
		defer s.Destroy()
	}
	cells := t.reg.Drain()
	for _, c := range cells {
		t.drop(c)
		var zero T
		c.val = zero
	}
	t.opt.Metrics.Reclaim(len(cells))

	var key uint64
	if s != nil {
		key = uint64(s.Key())
	}
	t.opt.Logger.Debug("threadlocal: closed",
		slog.Uint64("key", key),
		slog.Int("reclaimed", len(cells)))
	return nil
}

// String formats the caller's value.
func (t *threadLocal[T]) String() string {
	return fmt.Sprint(*t.Get())
}

// ---- helpers ----

// key returns the slot, allocating it on first use for Const containers.
func (t *threadLocal[T]) key() *slot.Slot {
	if s := t.slot.Load(); s != nil {
		return s
	}
	t.slotOnce.Do(func() {
		s, err := slot.Create()
		if err != nil {
			t.slotErr = fmt.Errorf("threadlocal: allocate key: %w", err)
			return
		}
		t.slot.Store(s)
		t.opt.Logger.Debug("threadlocal: key allocated lazily",
			slog.Uint64("key", uint64(s.Key())),
			slog.String("backend", slot.Backend))
	})
	if t.slotErr != nil {
		panic(t.slotErr)
	}
	return t.slot.Load()
}

// initCell builds the caller's copy, registers it for teardown and only
// then publishes it, so every published cell is always reclaimable.
// The initializer runs with no lock held.
func (t *threadLocal[T]) initCell(s *slot.Slot) *T {
	c := &cell[T]{val: t.produce(), owner: slot.ID()}
	if err := t.reg.Register(c); err != nil {
		// Only reachable when Close overlaps an access.
		panic(fmt.Errorf("threadlocal: register: %w", ErrClosed))
	}
	s.Set(unsafe.Pointer(c))
	t.opt.Metrics.Init()
	return &c.val
}

// produce returns a fresh value for a new identity.
func (t *threadLocal[T]) produce() T {
	if !t.seeded {
		return t.initFn()
	}
	if cl, ok := any(t.seed).(Cloner[T]); ok {
		return cl.Clone()
	}
	return t.seed
}

// drop runs the payload's destructor, if any.
func (t *threadLocal[T]) drop(c *cell[T]) {
	if t.opt.Drop != nil {
		t.opt.Drop(c.val)
		return
	}
	if cl, ok := any(c.val).(io.Closer); ok && !isNil(cl) {
		if err := cl.Close(); err != nil {
			t.opt.Logger.Warn("threadlocal: close payload",
				slog.Uint64("owner", c.owner),
				slog.Any("err", err))
		}
	}
}

// isNil reports whether v holds a nil pointer, map, slice, chan or
// func. Zero-value payloads from Default are skipped at teardown.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
