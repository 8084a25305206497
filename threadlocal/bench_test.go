package threadlocal

import "testing"

// benchmarkGet measures the steady-state path: every worker goroutine
// already owns its copy, so each Get is an identity lookup plus a shard read.
func benchmarkGet(b *testing.B, kind RegistryKind) {
	tl, err := New(func() int { return 0 }, Options[int]{Registry: kind})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = tl.Close() })

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			*tl.Get()++
		}
	})
}

func BenchmarkGet_Locked(b *testing.B)   { benchmarkGet(b, RegistryLocked) }
func BenchmarkGet_LockFree(b *testing.B) { benchmarkGet(b, RegistryLockFree) }

// benchmarkFirstTouch measures the cold path: init + register + publish.
// A fresh goroutine is needed per first touch.
func benchmarkFirstTouch(b *testing.B, kind RegistryKind) {
	tl, err := New(func() int { return 0 }, Options[int]{Registry: kind})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = tl.Close() })

	b.ReportAllocs()
	b.ResetTimer()

	done := make(chan struct{})
	for i := 0; i < b.N; i++ {
		go func() {
			_ = tl.Get()
			done <- struct{}{}
		}()
		<-done
	}
}

func BenchmarkFirstTouch_Locked(b *testing.B)   { benchmarkFirstTouch(b, RegistryLocked) }
func BenchmarkFirstTouch_LockFree(b *testing.B) { benchmarkFirstTouch(b, RegistryLockFree) }
