package slot

import (
	"errors"
	"sync"
)

// MaxKeys caps the number of live keys process-wide, matching the usual
// PTHREAD_KEYS_MAX. Keys are a finite resource on every backend so that
// leaking containers surfaces as an error instead of unbounded growth.
const MaxKeys = 1024

// ErrResourceExhausted is returned by Create when every key is live.
var ErrResourceExhausted = errors.New("slot: thread-local keys exhausted")

// keyTable hands out key numbers. Released keys are pushed on a free stack
// and reused before the high-water mark advances.
var keyTable = struct {
	mu   sync.Mutex
	free []uint32
	next uint32 // 0 is never handed out
	live int
	max  int // tests lower this to exercise exhaustion
}{next: 1, max: MaxKeys}

func allocKey() (uint32, error) {
	keyTable.mu.Lock()
	defer keyTable.mu.Unlock()

	if keyTable.live >= keyTable.max {
		return 0, ErrResourceExhausted
	}
	var k uint32
	if n := len(keyTable.free); n > 0 {
		k = keyTable.free[n-1]
		keyTable.free = keyTable.free[:n-1]
	} else {
		k = keyTable.next
		keyTable.next++
	}
	keyTable.live++
	return k, nil
}

func releaseKey(k uint32) {
	keyTable.mu.Lock()
	keyTable.free = append(keyTable.free, k)
	keyTable.live--
	keyTable.mu.Unlock()
}

// InUse returns the number of live keys across all slots.
func InUse() int {
	keyTable.mu.Lock()
	defer keyTable.mu.Unlock()
	return keyTable.live
}
