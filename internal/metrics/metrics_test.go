package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	appMetrics := metrics.NewMetrics(reg)

	require.NotNil(t, appMetrics)
	assert.InDelta(t, 0, testutil.ToFloat64(appMetrics.SeedRuns.WithLabelValues("inserted")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(appMetrics.StorageReady), 0)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = metrics.NewMetrics(reg)

	assert.Panics(t, func() {
		_ = metrics.NewMetrics(reg)
	})
}
