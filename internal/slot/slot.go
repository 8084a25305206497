// Package slot maps (key, calling identity) to one pointer-sized value.
//
// It is the Go counterpart of pthread_key_create / FlsAlloc: a Slot is a
// key, and every execution identity (a goroutine by default, an OS thread
// under the threadlocal_osthread build tag) sees its own value under it.
// Which identity is used is fixed at build time; see ID and Backend.
//
// Values are stored as unsafe.Pointer so the garbage collector keeps the
// pointees alive while they are published. nil is the empty sentinel.
package slot

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/IvanBrykalov/threadlocal/internal/util"
)

// Slot is one allocated key. All methods are safe for concurrent use; each
// caller only ever reads and writes the entry for its own identity.
type Slot struct {
	key       uint32
	shards    []shard
	mask      uint64 // len(shards)-1; len is a power of two
	destroyed atomic.Bool
}

// shard is one partition of the identity table with its own lock.
type shard struct {
	mu sync.RWMutex
	m  map[uint64]unsafe.Pointer
	_  util.CacheLinePad
}

// Create allocates a new key. It fails with ErrResourceExhausted when
// MaxKeys keys are already live.
func Create() (*Slot, error) {
	k, err := allocKey()
	if err != nil {
		return nil, err
	}
	// Shard maps are created on first Set; most keys are touched by few identities.
	n := util.ShardCount()
	return &Slot{key: k, shards: make([]shard, n), mask: uint64(n - 1)}, nil
}

// Key returns the key number. Numbers are reused after Destroy.
func (s *Slot) Key() uint32 { return s.key }

// Get returns the calling identity's value, or nil if it never stored one.
func (s *Slot) Get() unsafe.Pointer {
	id := ID()
	sh := s.shardFor(id)
	sh.mu.RLock()
	p := sh.m[id]
	sh.mu.RUnlock()
	return p
}

// Set stores p for the calling identity, overwriting any previous value.
// Set(nil) clears the entry.
func (s *Slot) Set(p unsafe.Pointer) {
	id := ID()
	sh := s.shardFor(id)
	sh.mu.Lock()
	switch {
	case p == nil:
		delete(sh.m, id)
	case sh.m == nil:
		sh.m = map[uint64]unsafe.Pointer{id: p}
	default:
		sh.m[id] = p
	}
	sh.mu.Unlock()
}

// Len returns the number of identities holding a value.
func (s *Slot) Len() int {
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		total += len(sh.m)
		sh.mu.RUnlock()
	}
	return total
}

// Destroy drops every mapping and returns the key to the pool.
// The caller must have reclaimed whatever the stored pointers refer to.
// Calling Destroy more than once is a no-op.
func (s *Slot) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		clear(sh.m)
		sh.mu.Unlock()
	}
	releaseKey(s.key)
}

// shardFor picks a shard by hashing the identity and masking.
func (s *Slot) shardFor(id uint64) *shard {
	return &s.shards[util.Fnv64a(id)&s.mask]
}
