//go:build !threadlocal_osthread || !(linux || windows)

package slot

import "github.com/petermattis/goid"

// Backend names the identity source compiled into this build.
const Backend = "goroutine"

// ID returns the calling goroutine's ID. Goroutine IDs are never reused,
// so an entry can never be observed by a later goroutine.
func ID() uint64 {
	return uint64(goid.Get())
}
