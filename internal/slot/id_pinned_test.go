package slot

import (
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onPinned runs fn on n goroutines, each locked to its OS thread, and keeps
// them all alive (and so on distinct threads) until every fn has returned.
func onPinned(n int, fn func(i int)) {
	var ready, release sync.WaitGroup
	ready.Add(n)
	release.Add(1)
	var done sync.WaitGroup
	done.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer done.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			fn(i)
			ready.Done()
			release.Wait()
		}()
	}
	ready.Wait()
	release.Done()
	done.Wait()
}

func TestID_StableWhilePinned(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	a := ID()
	assert.NotZero(t, a)
	for i := 0; i < 100; i++ {
		runtime.Gosched()
		require.Equal(t, a, ID())
	}
}

func TestSlot_PinnedGoroutinesIsolated(t *testing.T) {
	s, err := Create()
	require.NoError(t, err)
	t.Cleanup(s.Destroy)

	const pinned = 8
	ids := make([]uint64, pinned)
	onPinned(pinned, func(i int) {
		assert.Nil(t, s.Get())
		v := i
		s.Set(unsafe.Pointer(&v))
		if p := s.Get(); assert.NotNil(t, p) {
			assert.Equal(t, i, *(*int)(p))
		}
		ids[i] = ID()
	})

	seen := make(map[uint64]bool, pinned)
	for _, id := range ids {
		assert.NotZero(t, id)
		assert.False(t, seen[id], "identity %d shared by two pinned goroutines", id)
		seen[id] = true
	}
	assert.Equal(t, pinned, s.Len())
}

func TestBackend_Named(t *testing.T) {
	assert.Contains(t, []string{"goroutine", "os-thread"}, Backend)
}
