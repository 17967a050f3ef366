package cache

import (
	"fmt"
	"hash/fnv"
)

// ShaderCache caches compiled shader binaries keyed by ShaderKey.
type ShaderCache = ShardedCache[string, []byte]

// NewShaderCache returns a ShaderCache with capacity entries per shard.
func NewShaderCache(capacity int) *ShaderCache {
	return NewSharded[string, []byte](capacity, StringHasher)
}

// ShaderKey identifies the output of compiling source for target, e.g.
// "spirv-1.3". Identical sources share one key regardless of which stage
// produced them.
func ShaderKey(target, source string) string {
	h := fnv.New128a()
	_, _ = h.Write([]byte(source))
	return fmt.Sprintf("%s:%x:%d", target, h.Sum(nil), len(source))
}
