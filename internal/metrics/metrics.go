// Package metrics provides the centralized Prometheus metrics registry for
// the preference engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecordsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "records_processed_total",
		Help:      "Total number of race records processed",
	})
	RecordsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "records_skipped_total",
		Help:      "Total number of race records skipped during normalization",
	}, []string{"reason"})
	UpsertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "upserts_total",
		Help:      "Total number of preference rows upserted",
	}, []string{"table"})
	DuplicateSkipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "duplicate_skips_total",
		Help:      "Total number of rows skipped due to stale unique constraints",
	})
	HorsesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "horses_processed_total",
		Help:      "Total number of horses rebuilt",
	})
	HorsesFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "horses_failed_total",
		Help:      "Total number of horses whose rebuild failed",
	})
	SourceFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "horse_prefs",
		Name:      "source_fetches_total",
		Help:      "Total number of race history fetches by source and outcome",
	}, []string{"source", "outcome"})
)

// Gauge metrics
var (
	LastBatchHorses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "horse_prefs",
		Name:      "last_batch_horses",
		Help:      "Number of horses in the most recent batch",
	})
	LastBatchTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "horse_prefs",
		Name:      "last_batch_timestamp_seconds",
		Help:      "Unix time the most recent batch finished",
	})
)

// Histogram metrics
var (
	HorseRebuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "horse_prefs",
		Name:      "horse_rebuild_duration_seconds",
		Help:      "Duration of one per-horse rebuild in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "horse_prefs",
		Name:      "batch_duration_seconds",
		Help:      "Duration of a full rebuild batch in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RecordsProcessedTotal)
		registry.MustRegister(RecordsSkippedTotal)
		registry.MustRegister(UpsertsTotal)
		registry.MustRegister(DuplicateSkipsTotal)
		registry.MustRegister(HorsesProcessedTotal)
		registry.MustRegister(HorsesFailedTotal)
		registry.MustRegister(SourceFetchesTotal)

		// Register gauge metrics
		registry.MustRegister(LastBatchHorses)
		registry.MustRegister(LastBatchTimestamp)

		// Register histogram metrics
		registry.MustRegister(HorseRebuildDuration)
		registry.MustRegister(BatchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordProcessed records one normalized race record.
func RecordProcessed() {
	RecordsProcessedTotal.Inc()
}

// RecordSkipped records one race record dropped during normalization.
func RecordSkipped(reason string) {
	RecordsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordUpserts records preference rows written to one table.
func RecordUpserts(table string, count int) {
	UpsertsTotal.WithLabelValues(table).Add(float64(count))
}

// RecordDuplicateSkip records one row rejected by a stale unique constraint.
func RecordDuplicateSkip() {
	DuplicateSkipsTotal.Inc()
}

// RecordHorseProcessed records one completed per-horse rebuild.
func RecordHorseProcessed(durationSeconds float64) {
	HorsesProcessedTotal.Inc()
	HorseRebuildDuration.Observe(durationSeconds)
}

// RecordHorseFailed records one failed per-horse rebuild.
func RecordHorseFailed() {
	HorsesFailedTotal.Inc()
}

// RecordSourceFetch records one race history fetch.
func RecordSourceFetch(source string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	SourceFetchesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordBatch records the end-of-batch totals.
func RecordBatch(horses int, durationSeconds, finishedAtUnix float64) {
	LastBatchHorses.Set(float64(horses))
	BatchDuration.Observe(durationSeconds)
	LastBatchTimestamp.Set(finishedAtUnix)
}
