// Package cache provides byte caches for remote image payloads.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, for single-user CLI use
//   - [RedisCache]: a shared Redis instance, for teams pasting the same assets
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that the URL that was pasted never becomes
// a file name or Redis key verbatim.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
type Cache interface {
	// Get returns the payload for key. hit is false on a miss or when the
	// entry has expired; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ImageKey returns the key for the bytes fetched from rawURL.
	ImageKey(rawURL string) string
}

// DefaultKeyer hashes its inputs so keys have a fixed length and a safe
// alphabet.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImageKey generates a key for a remote image payload.
func (DefaultKeyer) ImageKey(rawURL string) string {
	return hashKey("image", rawURL)
}
