package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey generates a cache key from raw content, so identical
// dictionary uploads hit the same entry regardless of filename.
func ContentKey(content []byte) string {
	hash := sha256.Sum256(content)
	return "declarant:v1:" + hex.EncodeToString(hash[:])
}
