package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching embedding vectors and
// keyword metrics
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a namespaced cache key from arbitrary input text
func Key(input string) string {
	hash := sha256.Sum256([]byte(input))
	return "ideascout:v1:" + hex.EncodeToString(hash[:])
}
