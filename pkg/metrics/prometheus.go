package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes domain metrics via Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	cacheOps         *prometheus.CounterVec
	comparisons      prometheus.Histogram
	alertsTriggered  *prometheus.CounterVec
	snapshotsWritten prometheus.Counter
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksquad_provider_requests_total",
				Help: "Total market-data provider requests",
			},
			[]string{"kind", "result"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksquad_provider_request_seconds",
				Help:    "Market-data provider request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		cacheOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksquad_cache_ops_total",
				Help: "Cache hits and misses by data kind",
			},
			[]string{"kind", "outcome"},
		),
		comparisons: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stocksquad_comparison_seconds",
				Help:    "End-to-end comparison duration",
				Buckets: prometheus.DefBuckets,
			},
		),
		alertsTriggered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksquad_alerts_triggered_total",
				Help: "Price alerts triggered",
			},
			[]string{"direction"},
		),
		snapshotsWritten: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stocksquad_snapshots_written_total",
				Help: "Leaderboard performance snapshots written",
			},
		),
	}
}

// RecordProviderRequest records one provider call outcome.
func (r *Recorder) RecordProviderRequest(kind, result string, seconds float64) {
	r.providerRequests.WithLabelValues(kind, result).Inc()
	r.providerLatency.WithLabelValues(kind).Observe(seconds)
}

// RecordCacheHit records a cache hit for a data kind.
func (r *Recorder) RecordCacheHit(kind string) {
	r.cacheOps.WithLabelValues(kind, "hit").Inc()
}

// RecordCacheMiss records a cache miss for a data kind.
func (r *Recorder) RecordCacheMiss(kind string) {
	r.cacheOps.WithLabelValues(kind, "miss").Inc()
}

// RecordComparison records a comparison duration.
func (r *Recorder) RecordComparison(seconds float64) {
	r.comparisons.Observe(seconds)
}

// RecordAlertTriggered records a triggered alert.
func (r *Recorder) RecordAlertTriggered(direction string) {
	r.alertsTriggered.WithLabelValues(direction).Inc()
}

// RecordSnapshotWritten records one snapshot insert.
func (r *Recorder) RecordSnapshotWritten() {
	r.snapshotsWritten.Inc()
}
