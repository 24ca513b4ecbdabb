// Package cache stores rendered compositions so repeated requests for the same
// seed skip generation and encoding.
//
// Seeded compositions are pure functions of their options, so every artifact
// can be addressed by a key derived from those options. Random compositions
// are never cached.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON entries on disk, used by the CLI
//   - [RedisCache]: shared cache for `rothko serve` deployments
//
// Keys come from a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs. Seeded output never changes, so entries live long; the TTL
// only bounds disk and memory use.
const (
	TTLComposition = 30 * 24 * time.Hour
	TTLArtifact    = 30 * 24 * time.Hour
)
