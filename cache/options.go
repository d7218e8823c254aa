package cache

import (
	"time"

	"github.com/vimiix/vcache/local"
	"github.com/vimiix/vcache/policy"
	"github.com/vimiix/vcache/remote"
)

const (
	// DefaultTTL is the remote-tier expiry used when an Item does not
	// carry its own.
	DefaultTTL = time.Hour

	// DefaultLocalTTL bounds how long the local tier may serve an entry
	// without revisiting the remote tier.
	DefaultLocalTTL = time.Minute
)

// Options configures a Cache. The configuration is consumed once by New
// and never changes afterward; changing behavior requires constructing a
// new instance. Zero values get the documented defaults.
type Options struct {
	// Remote is the second tier. Nil disables it: the cache runs
	// local-only and every remote call reports remote.ErrUnavailable
	// through the same fallback path.
	Remote remote.Remote

	// LocalCapacity is the local tier's entry limit
	// (default local.DefaultCapacity, 256).
	LocalCapacity int

	// Shards overrides the local tier's shard count (0 = auto).
	Shards int

	// Policy selects the local eviction policy; nil means LRU.
	Policy policy.Policy

	// DefaultTTL is the remote expiry applied when Item.TTL is unset
	// (default DefaultTTL, 1 hour).
	DefaultTTL time.Duration

	// LocalTTL bounds local-tier staleness (default DefaultLocalTTL,
	// 1 minute). Entries whose resolved TTL is shorter expire locally at
	// that shorter deadline instead.
	LocalTTL time.Duration

	// StatsEnabled turns on the in-process Stats counters. When false,
	// Stats returns a zero Snapshot and the counters cost one branch.
	StatsEnabled bool

	// Metrics receives observability signals regardless of StatsEnabled;
	// nil means NoopMetrics.
	Metrics Metrics

	// OnEvict is called for every local-tier eviction.
	OnEvict func(key string, reason local.EvictReason)

	// StrictRemote makes Set and Delete fail when the remote write/delete
	// fails even though the local tier succeeded. The default (false)
	// treats local-only durability as an acceptable outcome: the call
	// succeeds and the failure is recorded in Stats.
	StrictRemote bool

	// Clock overrides the local tier's time source (tests).
	Clock local.Clock
}

// localTTL bounds a local entry's lifetime by both the resolved remote TTL
// and the configured LocalTTL, so the local tier never serves an entry past
// its remote expiry.
func (c *Cache) localTTL(remoteTTL time.Duration) time.Duration {
	if remoteTTL > 0 && remoteTTL < c.opt.LocalTTL {
		return remoteTTL
	}
	return c.opt.LocalTTL
}

// withDefaults resolves zero values. The local capacity default lives in
// the local package.
func (opt Options) withDefaults() Options {
	if opt.Remote == nil {
		opt.Remote = remote.Nop{}
	}
	if opt.DefaultTTL <= 0 {
		opt.DefaultTTL = DefaultTTL
	}
	if opt.LocalTTL <= 0 {
		opt.LocalTTL = DefaultLocalTTL
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return opt
}
