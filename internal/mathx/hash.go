// Package mathx holds fast deterministic hashing used to derive cell-local and
// column-local random streams. Stable across versions: no use of math/rand.
package mathx

// Mix32 avalanches a 32-bit input into a well-distributed 32-bit output
// (murmur-finalizer style).
func Mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 returns a stable hash for 2D integer coordinates plus a seed.
// Large odd constants decorrelate the axes.
func Hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return Mix32(h)
}

// SeedFor derives a 64-bit stream seed from a base seed and an integer key,
// for cell-local or column-local pseudo-random streams.
func SeedFor(seed int64, key int64) int64 {
	h := uint64(seed) ^ uint64(key)*0x9e3779b97f4a7c15
	h ^= h >> 32
	h *= 0xd6e8feb86659fd93
	h ^= h >> 32
	return int64(h)
}
