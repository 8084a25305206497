package util

import (
	"runtime"
	"testing"
)

func TestShardCount(t *testing.T) {
	n := ShardCount()
	if n < 2 || n > MaxShards || n&(n-1) != 0 {
		t.Fatalf("shard count %d is not a power of two in [2, %d]", n, MaxShards)
	}
	if p := 2 * runtime.GOMAXPROCS(0); p <= MaxShards && n < p {
		t.Fatalf("shard count %d below 2*GOMAXPROCS=%d", n, p)
	}
}

// Sequential identities must not all collapse onto one shard.
func TestFnv64a_SpreadsSequentialIDs(t *testing.T) {
	const mask = 15
	seen := make(map[uint64]bool)
	for i := uint64(1); i <= 64; i++ {
		seen[Fnv64a(i)&mask] = true
	}
	if len(seen) < 8 {
		t.Fatalf("poor spread: %d of 16 shards used", len(seen))
	}
}
