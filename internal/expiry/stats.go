package expiry

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a point-in-time snapshot of the actor's operational
// counters: objects expired, LRU tail moves, LRU-driven reclaims, and
// NukeOne scans that hit MaxScan before finding a candidate.
type Stats struct {
	Expired    uint64
	LRUMoved   uint64
	LRUNuked   uint64
	NukeCapped uint64
}

// CounterStats is a StatsSink backed by atomics, with an optional
// Prometheus registration so the counters are also scrapeable.
type CounterStats struct {
	expired    uint64
	lruMoved   uint64
	lruNuked   uint64
	nukeCapped uint64

	promExpired    prometheus.Counter
	promLRUMoved   prometheus.Counter
	promLRUNuked   prometheus.Counter
	promNukeCapped prometheus.Counter
}

// NewCounterStats builds a CounterStats and, if reg is non-nil,
// registers its counters under the given namespace.
func NewCounterStats(reg prometheus.Registerer, namespace string) *CounterStats {
	c := &CounterStats{
		promExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "expired_total", Help: "Objects expired by the actor.",
		}),
		promLRUMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "lru_moved_total", Help: "Successful LRU tail moves.",
		}),
		promLRUNuked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "lru_nuked_total", Help: "Objects reclaimed via NukeOne.",
		}),
		promNukeCapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "lru_nuke_scan_capped_total", Help: "NukeOne scans that hit MaxScan before finding a candidate.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.promExpired, c.promLRUMoved, c.promLRUNuked, c.promNukeCapped)
	}
	return c
}

func (c *CounterStats) IncExpired() {
	atomic.AddUint64(&c.expired, 1)
	if c.promExpired != nil {
		c.promExpired.Inc()
	}
}

func (c *CounterStats) IncLRUMoved() {
	atomic.AddUint64(&c.lruMoved, 1)
	if c.promLRUMoved != nil {
		c.promLRUMoved.Inc()
	}
}

func (c *CounterStats) IncLRUNuked() {
	atomic.AddUint64(&c.lruNuked, 1)
	if c.promLRUNuked != nil {
		c.promLRUNuked.Inc()
	}
}

func (c *CounterStats) IncNukeCapped() {
	atomic.AddUint64(&c.nukeCapped, 1)
	if c.promNukeCapped != nil {
		c.promNukeCapped.Inc()
	}
}

// Snapshot returns a consistent-enough point-in-time read of all four
// counters.
func (c *CounterStats) Snapshot() Stats {
	return Stats{
		Expired:    atomic.LoadUint64(&c.expired),
		LRUMoved:   atomic.LoadUint64(&c.lruMoved),
		LRUNuked:   atomic.LoadUint64(&c.lruNuked),
		NukeCapped: atomic.LoadUint64(&c.nukeCapped),
	}
}
