package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IngestMetrics holds all Prometheus metrics for the ingestion service.
type IngestMetrics struct {
	UpdatesTotal    *prometheus.CounterVec
	EventsExtracted *prometheus.CounterVec
	LookupFailures  prometheus.Counter
	MediaBytesTotal prometheus.Counter
}

// NewIngestMetrics initializes and registers the Prometheus metrics.
func NewIngestMetrics() *IngestMetrics {
	return &IngestMetrics{
		UpdatesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifelog",
			Subsystem: "ingest",
			Name:      "updates_total",
			Help:      "Total number of webhook updates by outcome.",
		}, []string{"outcome"}), // outcome: text, photo, unhandled, unauthorized, duplicate, error_fetch, error_extract, error_persist, error_index
		EventsExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifelog",
			Subsystem: "ingest",
			Name:      "events_extracted_total",
			Help:      "Total number of events extracted from text logs, by type.",
		}, []string{"type"}),
		LookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "lifelog",
			Subsystem: "enrichment",
			Name:      "lookup_failures_total",
			Help:      "Total number of failed nutrition lookup calls.",
		}),
		MediaBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "lifelog",
			Subsystem: "ingest",
			Name:      "media_bytes_total",
			Help:      "Total number of attachment bytes downloaded from the chat platform.",
		}),
	}
}
