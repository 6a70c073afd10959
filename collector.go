package objectpool

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/giantswarm/objectpool/internal/core"
)

// Metric names exported by pool collectors live under this namespace.
const metricNamespace = "objectpool"

// poolCollector exposes diagnostics counters — and, when wired to a live
// pool, its occupancy gauges — as Prometheus metrics. It reads the counters
// on every scrape, so no background goroutine or push step is involved.
//
// The collector sums over one or more Diagnostics sets: the per-pool
// Collector methods pass exactly one, NewCollector may aggregate several.
type poolCollector struct {
	diags []*core.Diagnostics

	// idleCount and inUseCount are nil for aggregate collectors built by
	// NewCollector, which have no pool to ask; the corresponding gauges are
	// then omitted from the exposition.
	idleCount  func() int
	inUseCount func() int64
	keyCount   func() int // nil for non-keyed pools

	created        *prometheus.Desc
	destroyed      *prometheus.Desc
	hits           *prometheus.Desc
	misses         *prometheus.Desc
	overflows      *prometheus.Desc
	resetFailures  *prometheus.Desc
	resurrections  *prometheus.Desc
	returnedToPool *prometheus.Desc
	idle           *prometheus.Desc
	inUse          *prometheus.Desc
	live           *prometheus.Desc
	keys           *prometheus.Desc
}

// Compile-time check that poolCollector implements prometheus.Collector.
var _ prometheus.Collector = (*poolCollector)(nil)

func newPoolCollector(labels prometheus.Labels, diags []*core.Diagnostics, idle func() int, inUse func() int64, keys func() int) *poolCollector {
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "", metric), help, nil, labels)
	}
	return &poolCollector{
		diags:          diags,
		idleCount:      idle,
		inUseCount:     inUse,
		keyCount:       keys,
		created:        desc("created_total", "Objects constructed by the factory."),
		destroyed:      desc("destroyed_total", "Objects whose resources have been released."),
		hits:           desc("hits_total", "Acquisitions satisfied from the pool."),
		misses:         desc("misses_total", "Acquisitions that required factory construction."),
		overflows:      desc("overflows_total", "Releases that found the pool full."),
		resetFailures:  desc("reset_failures_total", "Releases whose reset hook failed."),
		resurrections:  desc("resurrections_total", "Objects reclaimed from abandoned leases."),
		returnedToPool: desc("returned_total", "Releases that re-entered the pool."),
		idle:           desc("idle_objects", "Objects currently idle in the pool."),
		inUse:          desc("in_use_objects", "Live objects currently held by acquirers."),
		live:           desc("live_objects", "Objects alive (created minus destroyed)."),
		keys:           desc("sub_pools", "Sub-pools created by a keyed pool."),
	}
}

// snapshot sums the counters of every attached Diagnostics.
func (c *poolCollector) snapshot() core.DiagnosticsSnapshot {
	var total core.DiagnosticsSnapshot
	for _, d := range c.diags {
		s := d.Snapshot()
		total.Created += s.Created
		total.Destroyed += s.Destroyed
		total.Hit += s.Hit
		total.Miss += s.Miss
		total.Overflow += s.Overflow
		total.ResetFailed += s.ResetFailed
		total.Resurrected += s.Resurrected
		total.ReturnedToPool += s.ReturnedToPool
	}
	return total
}

// Describe implements prometheus.Collector.
func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.created
	ch <- c.destroyed
	ch <- c.hits
	ch <- c.misses
	ch <- c.overflows
	ch <- c.resetFailures
	ch <- c.resurrections
	ch <- c.returnedToPool
	ch <- c.live
	if c.idleCount != nil {
		ch <- c.idle
	}
	if c.inUseCount != nil {
		ch <- c.inUse
	}
	if c.keyCount != nil {
		ch <- c.keys
	}
}

// Collect implements prometheus.Collector.
func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(c.created, s.Created)
	counter(c.destroyed, s.Destroyed)
	counter(c.hits, s.Hit)
	counter(c.misses, s.Miss)
	counter(c.overflows, s.Overflow)
	counter(c.resetFailures, s.ResetFailed)
	counter(c.resurrections, s.Resurrected)
	counter(c.returnedToPool, s.ReturnedToPool)

	gauge(c.live, float64(s.Created-s.Destroyed))
	if c.idleCount != nil {
		gauge(c.idle, float64(c.idleCount()))
	}
	if c.inUseCount != nil {
		gauge(c.inUse, float64(c.inUseCount()))
	}
	if c.keyCount != nil {
		gauge(c.keys, float64(c.keyCount()))
	}
}

// NewCollector returns a prometheus.Collector exporting the summed counters
// of one or more Diagnostics sets, unlabeled. Use it to publish a single
// aggregate series for a family of pools that share Diagnostics indirectly
// (or to export counters without holding a pool reference). Occupancy gauges
// require a live pool and are only available from the per-pool Collector
// methods.
//
// Panics if no Diagnostics is supplied or any of them is nil.
func NewCollector(diags ...*Diagnostics) prometheus.Collector {
	if len(diags) == 0 {
		panic("objectpool: NewCollector requires at least one Diagnostics")
	}
	cores := make([]*core.Diagnostics, len(diags))
	for i, d := range diags {
		if d == nil {
			panic("objectpool: NewCollector diagnostics must not be nil")
		}
		cores[i] = d
	}
	return newPoolCollector(nil, cores, nil, nil, nil)
}

// Collector returns a prometheus.Collector exposing this pool's counters and
// occupancy gauges, labeled pool=name. Register it with any registry:
//
//	prometheus.MustRegister(pool.Collector("parsers"))
func (p *Pool[T]) Collector(name string) prometheus.Collector {
	return newPoolCollector(prometheus.Labels{"pool": name},
		[]*core.Diagnostics{p.core.Diagnostics()}, p.core.IdleCount, p.core.InUseCount, nil)
}

// Collector returns a prometheus.Collector exposing the shared counters of
// this keyed pool plus a sub-pool count gauge, labeled pool=name.
func (p *KeyedPool[K, V]) Collector(name string) prometheus.Collector {
	diag := p.core.Diagnostics()
	inUse := func() int64 { return diag.Live() - int64(p.IdleCount()) }
	return newPoolCollector(prometheus.Labels{"pool": name},
		[]*core.Diagnostics{diag}, p.IdleCount, inUse, p.core.KeyCount)
}
