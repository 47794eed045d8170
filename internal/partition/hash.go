package partition

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// Hasher maps a line to a 64-bit value. It must be a pure function of the
// line's bytes so that every occurrence of a line lands in the same bucket,
// on every run and on every machine.
type Hasher func(key string) uint64

// FNV1a hashes with 64-bit FNV-1a. It is the default.
// Computed over the string directly so routing a line does not allocate.
func FNV1a(key string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= fnvPrime64
	}
	return h
}

// XXH3 hashes with the 64-bit XXH3 function.
func XXH3(key string) uint64 {
	return xxh3.HashString(key)
}

// HasherByName resolves a hasher from its configuration name.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "", "fnv1a":
		return FNV1a, nil
	case "xxh3":
		return XXH3, nil
	default:
		return nil, fmt.Errorf("unknown hash %q (use fnv1a or xxh3)", name)
	}
}

// Route returns the bucket in [0, buckets) that owns key.
func Route(h Hasher, key string, buckets int) int {
	return int(h(key) % uint64(buckets))
}
