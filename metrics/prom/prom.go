// Package prom exports cache metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vimiix/vcache/cache"
	"github.com/vimiix/vcache/local"
)

// Adapter implements cache.Metrics and exports Prometheus counters.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	localHits    prometheus.Counter
	localMisses  prometheus.Counter
	remoteHits   prometheus.Counter
	remoteMisses prometheus.Counter
	remoteErrors prometheus.Counter
	codecErrors  prometheus.Counter
	evicts       *prometheus.CounterVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		localHits:    counter("local_hits_total", "Local tier hits"),
		localMisses:  counter("local_misses_total", "Local tier misses"),
		remoteHits:   counter("remote_hits_total", "Remote tier hits"),
		remoteMisses: counter("remote_misses_total", "Remote tier misses"),
		remoteErrors: counter("remote_errors_total", "Remote tier failures"),
		codecErrors:  counter("codec_errors_total", "Encode/decode failures"),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Local tier evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(
		a.localHits, a.localMisses,
		a.remoteHits, a.remoteMisses, a.remoteErrors,
		a.codecErrors, a.evicts,
	)
	return a
}

func (a *Adapter) LocalHit()    { a.localHits.Inc() }
func (a *Adapter) LocalMiss()   { a.localMisses.Inc() }
func (a *Adapter) RemoteHit()   { a.remoteHits.Inc() }
func (a *Adapter) RemoteMiss()  { a.remoteMisses.Inc() }
func (a *Adapter) RemoteError() { a.remoteErrors.Inc() }
func (a *Adapter) CodecError()  { a.codecErrors.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r local.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// reason maps EvictReason to a stable label value.
func reason(r local.EvictReason) string {
	switch r {
	case local.EvictTTL:
		return "ttl"
	case local.EvictCapacity:
		return "capacity"
	default:
		return "policy"
	}
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
