package cache

import (
	"sync"
	"sync/atomic"
)

// Process-wide default cache. Initialized exactly once: either explicitly
// via SetDefault or lazily with zero-value Options on first use. There is
// no implicit reconfiguration afterward.
var (
	defaultOnce  sync.Once
	defaultCache atomic.Pointer[Cache]
)

// Default returns the process-wide cache, constructing a local-only one
// with default Options on first use.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache.Store(New(Options{}))
	})
	return defaultCache.Load()
}

// SetDefault installs c as the process-wide cache. It must be called
// before the first use of Default; afterward it returns
// ErrDefaultInitialized and leaves the existing cache in place.
func SetDefault(c *Cache) error {
	installed := false
	defaultOnce.Do(func() {
		defaultCache.Store(c)
		installed = true
	})
	if !installed {
		return ErrDefaultInitialized
	}
	return nil
}
