package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several tools share one Redis instance and need
// separate key spaces.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "layerpaste:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ImageKey generates a prefixed key for a remote image payload.
func (k *ScopedKeyer) ImageKey(rawURL string) string {
	return k.prefix + k.inner.ImageKey(rawURL)
}
