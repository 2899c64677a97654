package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	require.NotNil(t, m.HTTPRequests)
	require.NotNil(t, m.ParseCacheHits)
	require.NotNil(t, m.SaveRequests)

	m.ParseCacheHits.Inc()
	m.SaveRequests.WithLabelValues("accepted").Inc()

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ParseCacheHits))
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	assert.Panics(t, func() { New(registry) })
}
