// Package metrics exposes Prometheus instrumentation for the authentication flows.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	ResultSuccess            = "success"
	ResultConflict           = "conflict"
	ResultInvalidCredentials = "invalid_credentials"
	ResultError              = "error"
)

// AuthMetrics records register/login outcomes and hashing latency.
type AuthMetrics struct {
	register     *prometheus.CounterVec
	login        *prometheus.CounterVec
	hashDuration prometheus.Histogram
}

// NewRegistry creates the registry served on the metrics endpoint, preloaded
// with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// NewAuthMetrics registers the auth collectors on registry.
func NewAuthMetrics(registry *prometheus.Registry) *AuthMetrics {
	factory := promauto.With(registry)

	return &AuthMetrics{
		register: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "register_total",
			Help:      "Registration attempts by result.",
		}, []string{"result"}),
		login: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "login_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		hashDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "auth",
			Name:      "password_hash_duration_seconds",
			Help:      "Time spent deriving argon2id keys.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveRegister counts a registration outcome. Safe on a nil receiver.
func (m *AuthMetrics) ObserveRegister(result string) {
	if m == nil {
		return
	}
	m.register.WithLabelValues(result).Inc()
}

// ObserveLogin counts a login outcome. Safe on a nil receiver.
func (m *AuthMetrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.login.WithLabelValues(result).Inc()
}

// ObserveHash records the time since start as one hash derivation. Safe on a nil receiver.
func (m *AuthMetrics) ObserveHash(start time.Time) {
	if m == nil {
		return
	}
	m.hashDuration.Observe(time.Since(start).Seconds())
}
