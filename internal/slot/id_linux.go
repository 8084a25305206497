//go:build threadlocal_osthread && linux

package slot

import "golang.org/x/sys/unix"

// Backend names the identity source compiled into this build.
const Backend = "os-thread"

// ID returns the calling OS thread's ID. Goroutines must hold
// runtime.LockOSThread for the value to be stable across calls.
func ID() uint64 {
	return uint64(unix.Gettid())
}
