package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	case out.Histogram != nil:
		return float64(out.Histogram.GetSampleCount())
	}
	t.Fatalf("unsupported metric %v", m.Desc())
	return 0
}

func TestMetrics(t *testing.T) {
	Init()
	Init()

	IncrementRateResolution("synthetic")
	IncrementRateResolution("synthetic")
	IncrementConversion("price", "success")
	IncrementConverterSwap()
	SetSnapshotQuotes(7)
	IncrementWorkerRun("rate_refresher", "failed")
	ObserveHTTP("GET", "/v1/rates", 200, 5*time.Millisecond)

	assert.Equal(t, float64(2), value(t, resolutionCounter.WithLabelValues("synthetic")))
	assert.Equal(t, float64(1), value(t, conversionCounter.WithLabelValues("price", "success")))
	assert.Equal(t, float64(1), value(t, converterSwapCounter))
	assert.Equal(t, float64(7), value(t, snapshotQuotesGauge))
	assert.Equal(t, float64(1), value(t, workerRunCounter.WithLabelValues("rate_refresher", "failed")))

	observer, err := httpDurationHistogram.GetMetricWithLabelValues("GET", "/v1/rates", "200")
	require.NoError(t, err)
	assert.Equal(t, float64(1), value(t, observer.(prometheus.Metric)))
}
