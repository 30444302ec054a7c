package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	CommunicationsProcessed prometheus.Counter
	ProcessingLatency       prometheus.Histogram
	CommitmentsExtracted    prometheus.Counter
	CommitmentsSkipped      *prometheus.CounterVec
	RemindersDerived        *prometheus.CounterVec
	RemindersDispatched     prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		CommunicationsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifecoach_communications_processed_total",
			Help: "Total number of communications processed",
		}),

		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifecoach_communication_processing_seconds",
			Help:    "Communication processing latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10}, // NER round-trips dominate the tail
		}),

		CommitmentsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifecoach_commitments_extracted_total",
			Help: "Total number of commitments identified by the extractor",
		}),

		CommitmentsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecoach_commitments_skipped_total",
			Help: "Total number of commitments skipped during derivation by reason",
		}, []string{"reason"}),

		RemindersDerived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecoach_reminders_derived_total",
			Help: "Total number of reminders derived by priority",
		}, []string{"priority"}),

		RemindersDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifecoach_reminders_dispatched_total",
			Help: "Total number of due reminders handed to the notification sink",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordCommunicationProcessed records one processed communication and its latency
func (m *Metrics) RecordCommunicationProcessed(seconds float64) {
	m.CommunicationsProcessed.Inc()
	m.ProcessingLatency.Observe(seconds)
}

// RecordCommitmentsExtracted records extracted commitment candidates
func (m *Metrics) RecordCommitmentsExtracted(n int) {
	m.CommitmentsExtracted.Add(float64(n))
}

// RecordCommitmentSkipped records a commitment dropped during derivation
func (m *Metrics) RecordCommitmentSkipped(reason string) {
	m.CommitmentsSkipped.WithLabelValues(reason).Inc()
}

// RecordReminderDerived records a derived reminder
func (m *Metrics) RecordReminderDerived(priority string) {
	m.RemindersDerived.WithLabelValues(priority).Inc()
}

// RecordReminderDispatched records a reminder handed to the sink
func (m *Metrics) RecordReminderDispatched() {
	m.RemindersDispatched.Inc()
}
