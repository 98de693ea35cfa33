// Package cache provides caching for expensive pipeline stages.
//
// Domain extraction and size-field grading read every raster window and
// can dominate a run; their results are deterministic in the source and
// parameters, so the pipeline caches them keyed by a hash of both. Three
// backends are provided: FileCache for CLI usage, RedisCache for shared
// deployments, and NullCache to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
