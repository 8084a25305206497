package util

import (
	"math/bits"
	"runtime"
)

// MaxShards bounds how many partitions one slot's identity table is split into.
const MaxShards = 256

// ShardCount returns 2*GOMAXPROCS rounded up to a power of two and clamped
// to MaxShards, so callers can pick a shard with hash & (ShardCount()-1).
func ShardCount() int {
	p := 2 * runtime.GOMAXPROCS(0)
	if p >= MaxShards {
		return MaxShards
	}
	return 1 << bits.Len(uint(p-1))
}
