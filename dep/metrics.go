package dep

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus-compatible instrumentation for a Resolver,
// namespaced "cortogen_dep_": one struct wrapping promauto-registered
// collectors, attached via WithMetrics and safe to leave nil.
type Metrics struct {
	itemsTotal     prometheus.Gauge
	edgesTotal     prometheus.Gauge
	cyclesBroken   prometheus.Counter
	itemsUnresolved prometheus.Gauge
	resolveDuration prometheus.Histogram
}

// NewMetrics creates and registers dep's metrics against registry. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() in tests to avoid collisions across runs.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		itemsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cortogen_dep_items_total",
			Help: "Number of items tracked by the dependency graph at walk start.",
		}),
		edgesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cortogen_dep_edges_total",
			Help: "Number of edges tracked by the dependency graph at walk start.",
		}),
		cyclesBroken: factory.NewCounter(prometheus.CounterOpts{
			Name: "cortogen_dep_cycles_broken_total",
			Help: "Cumulative number of weak edges demoted to break a circular wait.",
		}),
		itemsUnresolved: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cortogen_dep_items_unresolved_total",
			Help: "Number of items that never reached StateValid in the most recent walk.",
		}),
		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cortogen_dep_resolve_duration_seconds",
			Help:    "Wall-clock duration of a full Resolver.Walk call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeGraphSize(items, edges int) {
	m.itemsTotal.Set(float64(items))
	m.edgesTotal.Set(float64(edges))
}

func (m *Metrics) incCycleBroken() {
	m.cyclesBroken.Inc()
}

func (m *Metrics) observeUnresolved(n int) {
	m.itemsUnresolved.Set(float64(n))
}

func (m *Metrics) observeDuration(d time.Duration) {
	m.resolveDuration.Observe(d.Seconds())
}
