// Package cache provides the fetched-content cache: an in-memory layer
// for hot entries with an optional disk layer underneath.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"sourcelens/internal/model"
)

// Cache is the common interface over the memory, disk and layered caches.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key. The parts (namespace, URL, ...) are
// hashed so keys stay filesystem-safe regardless of input.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return "sourcelens:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: nil when caching is disabled,
// memory-only when no directory is configured, layered otherwise.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
