package observability

import (
	"time"

	"github.com/aretw0/anreach/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "anreach"

// Metrics records graph sizes, formula sizes, solve times and outcomes.
// A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	vertices      *prometheus.GaugeVec
	bound         prometheus.Gauge
	variables     prometheus.Gauge
	clauses       prometheus.Gauge
	solveDuration *prometheus.HistogramVec
	queries       *prometheus.CounterVec
	cache         *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		vertices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lcg_vertices",
			Help:      "Vertices of the local causality graph, by kind.",
		}, []string{"kind"}),
		bound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lcg_bound",
			Help:      "Completeness bound computed from the causality graph, -1 when unbounded.",
		}),
		variables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cnf_variables",
			Help:      "Variables of the last encoded formula.",
		}),
		clauses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cnf_clauses",
			Help:      "Clauses of the last encoded formula.",
		}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Duration of solver calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"solver"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Answered queries, by outcome.",
		}, []string{"outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Verdict cache lookups, by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.vertices, m.bound, m.variables, m.clauses, m.solveDuration, m.queries, m.cache)
	return m
}

// Registry exposes the registry, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveGraph sets the vertex gauges from the counts of each kind.
func (m *Metrics) ObserveGraph(byKind map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range byKind {
		m.vertices.WithLabelValues(kind).Set(float64(n))
	}
}

// ObserveBound records the computed bound.
func (m *Metrics) ObserveBound(bound int) {
	if m == nil {
		return
	}
	m.bound.Set(float64(bound))
}

// ObserveFormula records the size of the encoded formula.
func (m *Metrics) ObserveFormula(vars, clauses int) {
	if m == nil {
		return
	}
	m.variables.Set(float64(vars))
	m.clauses.Set(float64(clauses))
}

// ObserveSolve records one solver call.
func (m *Metrics) ObserveSolve(solver string, d time.Duration) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues(solver).Observe(d.Seconds())
}

// ObserveOutcome counts an answered query.
func (m *Metrics) ObserveOutcome(o domain.Outcome) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(string(o)).Inc()
}

// ObserveCache counts a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// WriteToTextfile writes the metrics atomically to path.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
