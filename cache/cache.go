package cache

import (
	"context"

	"github.com/vimiix/vcache/codec"
	"github.com/vimiix/vcache/internal/singleflight"
	"github.com/vimiix/vcache/local"
	"github.com/vimiix/vcache/remote"
)

// Cache composes the local and remote tiers behind the public
// Set/Get/Once/Delete/Exists operations.
//
// Tier order on reads: local first (unless skipped), then remote; a remote
// hit is back-filled into the local tier. Remote failures never fail a
// read — the orchestrator degrades to local-only behavior and records the
// failure. No lock is held across remote I/O, so a slow remote call never
// starves local-only operations.
type Cache struct {
	opt      Options
	local    *local.Store
	remote   remote.Remote
	group    singleflight.Group
	counters counters
}

// New constructs a Cache from opt. The configuration is immutable after
// this call.
func New(opt Options) *Cache {
	c := &Cache{opt: opt.withDefaults()}
	c.remote = c.opt.Remote
	c.local = local.New(local.Options{
		Capacity:   c.opt.LocalCapacity,
		Shards:     c.opt.Shards,
		Policy:     c.opt.Policy,
		DefaultTTL: c.opt.LocalTTL,
		Clock:      c.opt.Clock,
		OnEvict: func(key string, _ []byte, reason local.EvictReason) {
			c.opt.Metrics.Evict(reason)
			if cb := c.opt.OnEvict; cb != nil {
				cb(key, reason)
			}
		},
	})
	return c
}

// Set validates item, encodes its value, writes the local tier (unless
// skipped or conditional), then propagates to the remote tier with the
// resolved TTL.
//
// Remote write failures are recorded in Stats. They fail the call only
// when StrictRemote is set or when no local write happened (so the value
// would otherwise be stored nowhere).
func (c *Cache) Set(ctx context.Context, item *Item) error {
	if err := item.validate(); err != nil {
		return err
	}
	v, err := item.value(ctx)
	if err != nil {
		return err
	}
	b, err := codec.Marshal(v)
	if err != nil {
		c.codecError()
		return err
	}
	return c.setBytes(ctx, item, b)
}

// setBytes applies an already-encoded payload per the item's flags.
func (c *Cache) setBytes(ctx context.Context, item *Item, b []byte) error {
	ttl := resolveTTL(item.TTL, c.opt.DefaultTTL)

	// Conditional writes are remote-authoritative; pre-populating the
	// local tier could cache a value the remote rejected.
	conditional := item.IfExists || item.IfNotExists

	localWritten := false
	if !item.SkipLocalCache && !conditional {
		c.local.SetWithTTL(item.Key, b, c.localTTL(ttl))
		localWritten = true
	}

	var rerr error
	switch {
	case item.IfExists:
		_, rerr = c.remote.SetXX(ctx, item.Key, b, ttl)
	case item.IfNotExists:
		_, rerr = c.remote.SetNX(ctx, item.Key, b, ttl)
	default:
		rerr = c.remote.Set(ctx, item.Key, b, ttl)
	}
	if rerr != nil {
		c.remoteError()
		if c.opt.StrictRemote || !localWritten {
			return rerr
		}
	}
	return nil
}

// Get returns the decoded value for key. A miss on both tiers returns
// (nil, false, nil) — absence is not an error.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	return c.get(ctx, key, false)
}

// GetSkippingLocal reads through to the remote tier without consulting or
// back-filling the local tier.
func (c *Cache) GetSkippingLocal(ctx context.Context, key string) (any, bool, error) {
	return c.get(ctx, key, true)
}

func (c *Cache) get(ctx context.Context, key string, skipLocal bool) (any, bool, error) {
	b, ok, err := c.getBytes(ctx, key, skipLocal)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := codec.Unmarshal(b)
	if err != nil {
		c.codecError()
		return nil, false, err
	}
	return v, true, nil
}

// getBytes runs the tier protocol: local (unless skipped), then remote
// with back-fill. Remote failures degrade to a miss.
func (c *Cache) getBytes(ctx context.Context, key string, skipLocal bool) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrKeyRequired
	}
	if !skipLocal {
		if b, ok := c.local.Get(key); ok {
			c.localHit()
			return b, true, nil
		}
		c.localMiss()
	}

	b, ok, err := c.remote.Get(ctx, key)
	if err != nil {
		c.remoteError()
		return nil, false, nil
	}
	if !ok {
		c.remoteMiss()
		return nil, false, nil
	}
	c.remoteHit()

	if !skipLocal {
		c.local.SetWithTTL(key, b, c.opt.LocalTTL)
	}
	return b, true, nil
}

// Once returns the cached value for item.Key, or computes it via item.Do
// (falling back to item.Value) on a full miss. Concurrent misses for the
// same key collapse into a single computation: the winner stores the
// result through the Set path and every waiter receives it. If the loader
// fails, nothing is cached and all waiters for that invocation get the
// same error.
func (c *Cache) Once(ctx context.Context, item *Item) (any, error) {
	b, err := c.onceBytes(ctx, item)
	if err != nil {
		return nil, err
	}
	v, err := codec.Unmarshal(b)
	if err != nil {
		c.codecError()
		return nil, err
	}
	return v, nil
}

func (c *Cache) onceBytes(ctx context.Context, item *Item) ([]byte, error) {
	if err := item.validate(); err != nil {
		return nil, err
	}

	// Fast path: either tier already has it.
	if b, ok, err := c.getBytes(ctx, item.Key, item.SkipLocalCache); err != nil {
		return nil, err
	} else if ok {
		return b, nil
	}

	return c.group.Do(ctx, item.Key, func() ([]byte, error) {
		// Double-check after winning the flight: another caller may have
		// stored the value between our miss and now.
		if b, ok, _ := c.getBytes(ctx, item.Key, item.SkipLocalCache); ok {
			return b, nil
		}

		v, err := item.value(ctx)
		if err != nil {
			return nil, err
		}
		b, err := codec.Marshal(v)
		if err != nil {
			c.codecError()
			return nil, err
		}
		if err := c.setBytes(ctx, item, b); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// Delete removes key from the local tier and issues a remote delete.
// Local removal is the caller-visible guarantee: a remote failure is
// recorded in Stats and fails the call only under StrictRemote. A key
// missing on the remote is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	c.local.Remove(key)

	if _, err := c.remote.Del(ctx, key); err != nil {
		c.remoteError()
		if c.opt.StrictRemote {
			return err
		}
	}
	return nil
}

// Exists reports whether key has a non-expired local entry or, failing
// that, whether the remote tier reports it. Remote failures degrade to
// "does not exist".
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	if c.local.Contains(key) {
		return true, nil
	}
	ok, err := c.remote.Exists(ctx, key)
	if err != nil {
		c.remoteError()
		return false, nil
	}
	return ok, nil
}

// Stats returns a point-in-time snapshot of the counters.
// The zero Snapshot is returned when StatsEnabled is false.
func (c *Cache) Stats() Snapshot {
	if !c.opt.StatsEnabled {
		return Snapshot{}
	}
	return c.counters.snapshot()
}

// Len returns the number of entries resident in the local tier.
func (c *Cache) Len() int { return c.local.Len() }

// Flush drops every local-tier entry. The remote tier is untouched.
func (c *Cache) Flush() { c.local.Flush() }

// Close closes the local tier. The remote client is owned by the caller.
func (c *Cache) Close() error { return c.local.Close() }
