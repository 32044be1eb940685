package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMetrics_Counters(t *testing.T) {
	m := NewAuthMetrics(prometheus.NewRegistry())

	m.ObserveRegister(ResultSuccess)
	m.ObserveRegister(ResultSuccess)
	m.ObserveRegister(ResultConflict)
	m.ObserveLogin(ResultInvalidCredentials)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.register.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.register.WithLabelValues(ResultConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.login.WithLabelValues(ResultInvalidCredentials)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.login.WithLabelValues(ResultSuccess)))
}

func TestAuthMetrics_HashHistogram(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewAuthMetrics(registry)

	m.ObserveHash(time.Now().Add(-10 * time.Millisecond))

	count, err := testutil.GatherAndCount(registry, "auth_password_hash_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuthMetrics_NilReceiver(t *testing.T) {
	var m *AuthMetrics

	assert.NotPanics(t, func() {
		m.ObserveRegister(ResultSuccess)
		m.ObserveLogin(ResultError)
		m.ObserveHash(time.Now())
	})
}

func TestNewRegistry_GathersRuntimeMetrics(t *testing.T) {
	families, err := NewRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
