// Package threadlocal provides per-object goroutine-local storage: a
// container that lazily creates one independent copy of a value for every
// goroutine that touches it and returns the same copy on every later access
// from that goroutine.
//
// Unlike storage tied to the goroutine's lifetime, the copies belong to the
// container. A goroutine may exit long before the container does; its copy
// stays reachable until Close, which reclaims every copy at once.
//
// Design
//
//   - Slot: each container owns one key from a process-wide table capped at
//     1024 live keys. The key maps the calling identity to a pointer-sized
//     value in a sharded map (one RWMutex per shard). The identity is the
//     goroutine ID by default; building with -tags threadlocal_osthread
//     switches to the OS thread ID (gettid on linux, GetCurrentThreadId on
//     windows), for goroutines pinned with runtime.LockOSThread.
//
//   - First access: the initializer (or the Const seed) runs with no lock
//     held, the new cell is registered for teardown, then published into the
//     slot. Later accesses only consult the slot.
//
//   - Registry: every cell is recorded in a registry drained exactly once by
//     Close. RegistryLocked (default) uses a mutex-guarded slice,
//     RegistryLockFree a CAS-swapped stack.
//
//   - Teardown: Close runs Options.Drop (or io.Closer.Close) once per copy,
//     then releases the key so it can be reused. Nothing is dropped before
//     Close.
//
//   - Metrics: Options.Metrics receives Init/Hit/Reclaim signals.
//     NoopMetrics is the default; metrics/prom exports them to Prometheus.
//
// Basic usage
//
//	tl, err := threadlocal.New(func() int { return 5 }, threadlocal.Options[int]{})
//	if err != nil {
//	    return err // errors.Is(err, threadlocal.ErrResourceExhausted)
//	}
//	defer tl.Close()
//
//	fmt.Println(tl.Value()) // 5
//	*tl.Get() = 6
//	fmt.Println(tl.Value()) // 6
//	go func() { fmt.Println(tl.Value()) }() // 5: a fresh copy
//
// Package-level containers
//
//	var scratch = threadlocal.Const(0, threadlocal.Options[int]{})
//
// Const defers key allocation to the first access. Copies of the seed are
// plain value copies unless the type implements Cloner.
//
// Rules
//
// A pointer returned by Get belongs to the calling goroutine: do not pass it
// to other goroutines and do not keep it past Close. Calling Get from inside
// the container's own initializer recurses forever.
package threadlocal
