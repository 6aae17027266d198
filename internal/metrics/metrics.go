package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for seed runs and served requests, a gauge for storage
// readiness, and histograms for request and query duration.
type Metrics struct {
	SeedRuns            *prometheus.CounterVec
	SeededRecords       prometheus.Counter
	StorageReady        prometheus.Gauge
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		SeedRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mnemosyne_seed_runs_total",
			Help: "Total seed attempts by outcome: inserted, skipped or failure.",
		}, []string{"status"}),
		SeededRecords: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "mnemosyne_seeded_records_total",
			Help: "Total number of employee records inserted by the seeder.",
		}),
		StorageReady: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "mnemosyne_storage_ready",
			Help: "1 when the storage connection is established and seeding has finished.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mnemosyne_http_requests_total",
			Help: "Total number of served HTTP requests.",
		}, []string{"route", "method", "code"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mnemosyne_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mnemosyne_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'count_employees', 'insert_employees', 'list_employees'
	}

	metrics.SeedRuns.WithLabelValues("inserted")
	metrics.SeedRuns.WithLabelValues("skipped")
	metrics.SeedRuns.WithLabelValues("failure")

	return metrics
}
