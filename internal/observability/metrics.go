package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	resolutionCounter     *prometheus.CounterVec
	conversionCounter     *prometheus.CounterVec
	converterSwapCounter  prometheus.Counter
	snapshotQuotesGauge   prometheus.Gauge
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		resolutionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_rate_resolutions_total",
			Help: "Exchange rate lookups by how the rate was obtained",
		}, []string{"kind"})

		conversionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_conversions_total",
			Help: "Conversions served over HTTP by scale policy and outcome",
		}, []string{"policy", "result"})

		converterSwapCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fx_converter_swaps_total",
			Help: "Number of times a new rate snapshot was swapped in",
		})

		snapshotQuotesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fx_snapshot_quotes",
			Help: "Number of quotes in the active rate snapshot",
		})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			resolutionCounter,
			conversionCounter,
			converterSwapCounter,
			snapshotQuotesGauge,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementRateResolution(kind string) {
	if resolutionCounter == nil {
		return
	}
	resolutionCounter.WithLabelValues(kind).Inc()
}

func IncrementConversion(policy, result string) {
	if conversionCounter == nil {
		return
	}
	conversionCounter.WithLabelValues(policy, result).Inc()
}

func IncrementConverterSwap() {
	if converterSwapCounter == nil {
		return
	}
	converterSwapCounter.Inc()
}

func SetSnapshotQuotes(n int) {
	if snapshotQuotesGauge == nil {
		return
	}
	snapshotQuotesGauge.Set(float64(n))
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
