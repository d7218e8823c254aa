// Package cache provides a two-tier cache: a fast, sharded, bounded
// in-process tier in front of an optional remote tier (Redis).
//
// Design
//
//   - Tiers: reads consult the local tier first, then the remote tier; a
//     remote hit is decoded and back-filled locally. Writes encode once,
//     store locally, and propagate to the remote tier with the item's TTL.
//     The remote tier is always optional: when none is configured a null
//     adapter reports remote.ErrUnavailable and the orchestrator's
//     fallback path is identical to a remote outage.
//
//   - Degradation: remote failures never fail a read. They are absorbed,
//     treated as a miss, and recorded in Stats. Write behavior is an
//     explicit configuration choice (Options.StrictRemote): by default a
//     successful local write makes Set succeed even when the remote write
//     fails.
//
//   - Encoding: values cross into the remote tier through the codec
//     package — a self-describing tagged format where []byte and string
//     pass through raw and everything else is msgpack (zlib-compressed
//     past a threshold). The local tier stores the same encoded payload,
//     so a value is encoded exactly once per write.
//
//   - Thundering herd: Once collapses concurrent misses for the same key
//     into a single loader invocation via an in-flight registry; every
//     waiter receives the winner's result, and a loader error caches
//     nothing.
//
//   - Concurrency: the local tier uses per-shard locking and the stats
//     counters are cache-line-padded atomics; no lock is held across
//     remote I/O.
//
// Basic usage
//
//	c := cache.New(cache.Options{LocalCapacity: 1000})
//	defer c.Close()
//
//	err := c.Set(ctx, &cache.Item{Key: "greeting", Value: "Hello, World"})
//	v, ok, err := c.Get(ctx, "greeting") // "Hello, World", true, nil
//
// With a remote tier
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	c := cache.New(cache.Options{
//	    Remote:       remote.NewRedis(rdb, remote.WithPrefix("app")),
//	    DefaultTTL:   time.Hour,
//	    StatsEnabled: true,
//	})
//
// Get-or-compute (singleflight)
//
//	profile, err := cache.Once[Profile](ctx, c, &cache.Item{
//	    Key: "profile:42",
//	    TTL: 10 * time.Minute,
//	    Do: func(ctx context.Context) (any, error) {
//	        return loadProfile(ctx, 42)
//	    },
//	})
//
// Typed reads
//
//	u, ok, err := cache.Get[User](ctx, c, "user:1")
//
// Cache.Get decodes without a type hint: []byte and string come back
// as-is, numbers as int64/float64, maps as map[string]any. The generic
// Get/Once helpers decode msgpack payloads into the concrete type.
package cache
