package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onsite_store_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"operation", "result"},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "onsite_store_operation_duration_seconds",
			Help: "Duration of record store operations in seconds",
		},
		[]string{"operation"},
	)

	Extractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onsite_pdf_extractions_total",
			Help: "Total number of PDF extraction requests",
		},
		[]string{"result"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "onsite_pdf_extraction_duration_seconds",
			Help:    "Duration of PDF extraction requests in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	RecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onsite_records_loaded",
			Help: "Number of records returned by the last fetch",
		},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStore records the outcome and duration of a store operation started at start
func ObserveStore(operation string, start time.Time, err error) {
	StoreOperations.WithLabelValues(operation, result(err)).Inc()
	StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveExtraction records the outcome and duration of a PDF extraction started at start
func ObserveExtraction(start time.Time, err error) {
	Extractions.WithLabelValues(result(err)).Inc()
	ExtractionDuration.Observe(time.Since(start).Seconds())
}
