// Package util contains internal helpers (hashing, sharding, padding).
package util

import "github.com/cespare/xxhash/v2"

// HashKey hashes a cache key for shard selection.
// xxhash is a fast non-cryptographic hash with good distribution on the
// short string keys this library shards on.
func HashKey(key string) uint64 {
	return xxhash.Sum64String(key)
}
