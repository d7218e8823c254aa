package cache

import (
	"context"
	"time"
)

// Item is the unit of work passed to Set and Once. Items are transient:
// constructed per call and never retained by the cache.
type Item struct {
	// Key identifies the entry. Must be non-empty.
	Key string

	// Value is the value to cache. Ignored when Do is set.
	Value any

	// TTL controls the remote-tier expiry:
	//
	//	TTL < 0          store remotely without expiry
	//	0 <= TTL < 1s    use the cache's DefaultTTL
	//	TTL >= 1s        use TTL as given
	//
	// The local tier is additionally bounded by Options.LocalTTL, so a
	// local entry never outlives the shorter of the two.
	TTL time.Duration

	// Do computes the value to cache. Used by Once on a full miss, and by
	// Set in place of Value when non-nil. Errors are returned verbatim and
	// nothing is cached.
	Do func(ctx context.Context) (any, error)

	// IfExists only applies the remote write when the key already exists
	// (Redis SET XX). Conditional writes are remote-authoritative: the
	// local tier is skipped so a rejected write cannot poison it.
	IfExists bool

	// IfNotExists only applies the remote write when the key is absent
	// (Redis SET NX). Same local-tier rule as IfExists.
	IfNotExists bool

	// SkipLocalCache bypasses the local tier for this operation.
	SkipLocalCache bool
}

func (item *Item) validate() error {
	if item == nil || item.Key == "" {
		return ErrKeyRequired
	}
	return nil
}

// value resolves the item's value, preferring Do over Value.
func (item *Item) value(ctx context.Context) (any, error) {
	if item.Do != nil {
		return item.Do(ctx)
	}
	if item.Value == nil {
		return nil, ErrValueRequired
	}
	return item.Value, nil
}

// resolveTTL applies the Item.TTL rules against the configured default.
func resolveTTL(ttl, def time.Duration) time.Duration {
	if ttl < 0 {
		return 0
	}
	if ttl < time.Second {
		return def
	}
	return ttl
}
