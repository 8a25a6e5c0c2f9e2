// Package metrics holds the prometheus collectors of the analyzer.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "analyzer"

// Cycle outcomes.
const (
	CyclePublished  = "published"
	CycleStale      = "stale"
	CycleFailed     = "failed"
	CycleSuppressed = "suppressed"
)

// Metrics is a set of collectors registered on its own registry.
// The zero value is not usable; a nil *Metrics is a no-op.
type Metrics struct {
	Registry *prometheus.Registry

	apiRequests     *prometheus.CounterVec
	apiRetries      *prometheus.CounterVec
	cycles          *prometheus.CounterVec
	channelRequests *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests to the public player API by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		apiRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_retries_total",
			Help:      "Retried requests to the public player API by endpoint.",
		}, []string{"endpoint"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Analysis cycles by outcome.",
		}, []string{"outcome"}),
		channelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_requests_total",
			Help:      "Internal channel round trips by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(m.apiRequests, m.apiRetries, m.cycles, m.channelRequests)
	return m
}

// Request counts a request; code 0 means the request failed before a response.
func (m *Metrics) Request(endpoint string, code int) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

func (m *Metrics) Retry(endpoint string) {
	if m == nil {
		return
	}
	m.apiRetries.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) Cycle(outcome string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Channel(outcome string) {
	if m == nil {
		return
	}
	m.channelRequests.WithLabelValues(outcome).Inc()
}
