// Package metrics records derivation latency for the stats pane and exposes
// the same observations as Prometheus collectors.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects derivation and reload observations. It is safe for
// concurrent use.
type Recorder struct {
	started time.Time

	mu      sync.Mutex
	latency *durationRing

	derivations atomic.Uint64
	cacheHits   atomic.Uint64
	reloads     atomic.Uint64

	registry         *prometheus.Registry
	derivationsTotal *prometheus.CounterVec
	deriveDuration   prometheus.Histogram
	entries          prometheus.Gauge
	visibleEntries   prometheus.Gauge
	reloadsTotal     prometheus.Counter
}

// New returns a Recorder keeping the last window latency samples.
func New(window int) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		started:  time.Now(),
		latency:  newDurationRing(window),
		registry: reg,
		derivationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_derivations_total",
			Help: "The total number of derived views, by memo cache outcome",
		}, []string{"cache"}),
		deriveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_derive_duration_seconds",
			Help:    "Time spent sorting and filtering the catalog",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "The number of entries in the loaded catalog",
		}),
		visibleEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_visible_entries",
			Help: "The number of entries in the last derived view",
		}),
		reloadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "The total number of data file reloads",
		}),
	}
}

// ObserveDerive matches catalog.Observer.
func (r *Recorder) ObserveDerive(d time.Duration, cached bool, visible int) {
	r.derivations.Add(1)
	outcome := "miss"
	if cached {
		r.cacheHits.Add(1)
		outcome = "hit"
	}
	r.derivationsTotal.WithLabelValues(outcome).Inc()
	r.deriveDuration.Observe(d.Seconds())
	r.visibleEntries.Set(float64(visible))

	r.mu.Lock()
	r.latency.add(d)
	r.mu.Unlock()
}

// SetEntries records the size of the current catalog.
func (r *Recorder) SetEntries(n int) {
	r.entries.Set(float64(n))
}

// ObserveReload counts a successful reload of the data file.
func (r *Recorder) ObserveReload(entries int) {
	r.reloads.Add(1)
	r.reloadsTotal.Inc()
	r.SetEntries(entries)
}

// Handler serves the Recorder's collectors in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Snapshot is a point-in-time view of a Recorder.
type Snapshot struct {
	Started     time.Time
	Derivations uint64
	CacheHits   uint64
	Reloads     uint64
	Latency     DurationStats
}

// HitRate is the share of derivations served from the memo cache, in [0,1].
func (s Snapshot) HitRate() float64 {
	if s.Derivations == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.Derivations)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	latency := r.latency.stats()
	r.mu.Unlock()

	return Snapshot{
		Started:     r.started,
		Derivations: r.derivations.Load(),
		CacheHits:   r.cacheHits.Load(),
		Reloads:     r.reloads.Load(),
		Latency:     latency,
	}
}
