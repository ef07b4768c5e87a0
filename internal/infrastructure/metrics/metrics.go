package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/accountability/ledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal entry metrics
	JournalEntryTransitions *prometheus.CounterVec
	FormValidationFailures  prometheus.Counter

	// Chart of accounts metrics
	HierarchyCacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JournalEntryTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_journal_entry_transitions_total",
				Help: "Journal entries moved into a workflow status",
			},
			[]string{"status"},
		),
		FormValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_form_validation_failures_total",
			Help: "Journal entry forms rejected by validation",
		}),

		HierarchyCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_hierarchy_cache_lookups_total",
				Help: "Chart of accounts cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_retries_total",
				Help: "Database operations retried after a transient error",
			},
			[]string{"code"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// JournalEntryTransition counts an entry reaching status.
func (m *Metrics) JournalEntryTransition(status domain.JournalEntryStatus) {
	m.JournalEntryTransitions.WithLabelValues(string(status)).Inc()
}

// FormValidationFailed counts a rejected form.
func (m *Metrics) FormValidationFailed() {
	m.FormValidationFailures.Inc()
}

// HierarchyCacheResult counts a cache hit or miss.
func (m *Metrics) HierarchyCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.HierarchyCacheLookups.WithLabelValues(result).Inc()
}
