package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the scoring service
type Metrics struct {
	// Batch metrics
	BatchRunsTotal    *prometheus.CounterVec
	BatchRunDuration  prometheus.Histogram
	TopicsScoredTotal prometheus.Counter
	TopicsFailedTotal prometheus.Counter
	LastBatchTime     prometheus.Gauge

	// Classifier metrics
	ClassifierRequests *prometheus.CounterVec
	ClassifierDuration prometheus.Histogram

	// Rate limiter metrics
	RateLimitRejections *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
	KafkaMessagesConsumed *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	GetDefaultMetrics()
}

// NewMetrics creates a new Metrics instance registered with the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		BatchRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_service_batch_runs_total",
				Help: "Total number of batch scoring runs by outcome",
			},
			[]string{"outcome"},
		),
		BatchRunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoring_service_batch_run_duration_seconds",
			Help:    "Duration of batch scoring runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}),
		TopicsScoredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scoring_service_topics_scored_total",
			Help: "Total number of topic score updates committed",
		}),
		TopicsFailedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scoring_service_topics_failed_total",
			Help: "Total number of topics skipped by a batch run",
		}),
		LastBatchTime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scoring_service_last_batch_timestamp_seconds",
			Help: "Unix time of the last completed batch run",
		}),

		ClassifierRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_service_classifier_requests_total",
				Help: "Total number of classifier calls by status",
			},
			[]string{"status"},
		),
		ClassifierDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoring_service_classifier_duration_seconds",
			Help:    "Duration of classifier calls in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		RateLimitRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_service_rate_limit_rejections_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"tier"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_service_http_requests_total",
				Help: "Total number of HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scoring_service_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_service_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"error_type"},
		),
		KafkaMessagesConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_service_kafka_messages_consumed_total",
				Help: "Total number of Kafka messages consumed by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordBatchRun records a finished batch run
func (m *Metrics) RecordBatchRun(outcome string, scored, failed int, duration float64, finishedAt float64) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.BatchRunsTotal.WithLabelValues(outcome).Inc()
	m.BatchRunDuration.Observe(duration)
	if scored > 0 {
		m.TopicsScoredTotal.Add(float64(scored))
	}
	if failed > 0 {
		m.TopicsFailedTotal.Add(float64(failed))
	}
	m.LastBatchTime.Set(finishedAt)
}

// RecordClassifierCall records a classifier call with its duration
func (m *Metrics) RecordClassifierCall(status string, duration float64) {
	if status == "" {
		status = "unknown"
	}
	m.ClassifierRequests.WithLabelValues(status).Inc()
	m.ClassifierDuration.Observe(duration)
}

// RecordRateLimitRejection records a request denied by the tier's limiter
func (m *Metrics) RecordRateLimitRejection(tier string) {
	m.RateLimitRejections.WithLabelValues(tier).Inc()
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, statusClass(status)).Inc()
}

// RecordKafkaMessage records a produced Kafka message
func (m *Metrics) RecordKafkaMessage() {
	m.KafkaMessagesProduced.Inc()
}

// RecordKafkaError records a Kafka production error with error type
func (m *Metrics) RecordKafkaError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.KafkaProduceErrors.WithLabelValues(errorType).Inc()
}

// RecordKafkaConsumed records a consumed Kafka message by outcome
func (m *Metrics) RecordKafkaConsumed(outcome string) {
	m.KafkaMessagesConsumed.WithLabelValues(outcome).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
