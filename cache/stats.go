package cache

import (
	"github.com/vimiix/vcache/internal/util"
	"github.com/vimiix/vcache/local"
)

// Metrics receives cache-level observability signals. Implementations must
// be safe for concurrent use. NoopMetrics is used by default; plug the
// metrics/prom adapter to export Prometheus counters.
type Metrics interface {
	LocalHit()
	LocalMiss()
	RemoteHit()
	RemoteMiss()
	RemoteError()
	CodecError()
	Evict(reason local.EvictReason)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

var _ Metrics = NoopMetrics{}

func (NoopMetrics) LocalHit()               {}
func (NoopMetrics) LocalMiss()              {}
func (NoopMetrics) RemoteHit()              {}
func (NoopMetrics) RemoteMiss()             {}
func (NoopMetrics) RemoteError()            {}
func (NoopMetrics) CodecError()             {}
func (NoopMetrics) Evict(local.EvictReason) {}

// Snapshot is a point-in-time copy of the cache counters.
// All counters are monotonically increasing.
type Snapshot struct {
	LocalHits    uint64
	LocalMisses  uint64
	RemoteHits   uint64
	RemoteMisses uint64
	RemoteErrors uint64
	CodecErrors  uint64
}

// counters are padded to separate cache lines so goroutines hammering
// different counters do not false-share.
type counters struct {
	localHits    util.PaddedAtomicUint64
	localMisses  util.PaddedAtomicUint64
	remoteHits   util.PaddedAtomicUint64
	remoteMisses util.PaddedAtomicUint64
	remoteErrors util.PaddedAtomicUint64
	codecErrors  util.PaddedAtomicUint64
}

func (s *counters) snapshot() Snapshot {
	return Snapshot{
		LocalHits:    s.localHits.Load(),
		LocalMisses:  s.localMisses.Load(),
		RemoteHits:   s.remoteHits.Load(),
		RemoteMisses: s.remoteMisses.Load(),
		RemoteErrors: s.remoteErrors.Load(),
		CodecErrors:  s.codecErrors.Load(),
	}
}

// ---- signal helpers: bump counters (when enabled) and forward to Metrics ----

func (c *Cache) localHit() {
	if c.opt.StatsEnabled {
		c.counters.localHits.Add(1)
	}
	c.opt.Metrics.LocalHit()
}

func (c *Cache) localMiss() {
	if c.opt.StatsEnabled {
		c.counters.localMisses.Add(1)
	}
	c.opt.Metrics.LocalMiss()
}

func (c *Cache) remoteHit() {
	if c.opt.StatsEnabled {
		c.counters.remoteHits.Add(1)
	}
	c.opt.Metrics.RemoteHit()
}

func (c *Cache) remoteMiss() {
	if c.opt.StatsEnabled {
		c.counters.remoteMisses.Add(1)
	}
	c.opt.Metrics.RemoteMiss()
}

func (c *Cache) remoteError() {
	if c.opt.StatsEnabled {
		c.counters.remoteErrors.Add(1)
	}
	c.opt.Metrics.RemoteError()
}

func (c *Cache) codecError() {
	if c.opt.StatsEnabled {
		c.counters.codecErrors.Add(1)
	}
	c.opt.Metrics.CodecError()
}
