// Package metrics holds the prometheus collectors of the planner.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "payoff"

// Outcome labels for simulation runs.
const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient_budget"
	OutcomeError        = "error"
)

type Metrics struct {
	simulations        *prometheus.CounterVec
	simulationDuration *prometheus.HistogramVec
	cacheLookups       *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Payoff simulations by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		simulationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of a single payoff simulation",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"strategy"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Plan cache lookups by result",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "method", "code"}),
	}
	reg.MustRegister(m.simulations, m.simulationDuration, m.cacheLookups, m.httpRequests)
	return m
}

// ObserveSimulation records one engine run. A nil receiver is a no-op so
// callers without metrics can pass nil.
func (m *Metrics) ObserveSimulation(strategy, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues(strategy, outcome).Inc()
	m.simulationDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObserveRequest(route, method, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, code).Inc()
}
