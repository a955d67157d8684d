// Package cache provides the in-memory TTL cache used for gateway
// availability probes and repeated-extraction results. Nothing here is
// persisted; entries die with the process.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the caching contract used by the server.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
}

// DescriptionKey derives a cache key from an incident description, so
// identical texts hit the same entry without storing the text itself.
func DescriptionKey(description string) string {
	hash := sha256.Sum256([]byte(description))
	return "extract:v1:" + hex.EncodeToString(hash[:])
}

// ProbeKey is the cache key for a provider availability probe.
func ProbeKey(provider string) string {
	return "probe:v1:" + provider
}
