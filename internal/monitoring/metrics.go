package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TasksSubmitted      *prometheus.CounterVec
	TasksFinished       *prometheus.CounterVec
	PagesFetched        *prometheus.CounterVec
	FetchErrors         *prometheus.CounterVec
	FetchDuration       prometheus.Histogram
	QueueDepth          prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TasksSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_tasks_submitted_total",
			Help: "The total number of accepted scrape tasks",
		}, []string{"format"}),
		TasksFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_tasks_finished_total",
			Help: "The total number of tasks that reached a terminal state",
		}, []string{"format", "status"}),
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_pages_fetched_total",
			Help: "The total number of pages fetched successfully",
		}, []string{"status_code"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_fetch_errors_total",
			Help: "The total number of fetch errors encountered",
		}, []string{"type"}), // e.g., 'timeout', 'status', 'network'
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Time taken to download a page",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scraper_queue_depth",
			Help: "Current number of tasks waiting for a worker",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) IncSubmitted(format string) {
	m.TasksSubmitted.WithLabelValues(format).Inc()
}

func (m *Metrics) IncFinished(format, status string) {
	m.TasksFinished.WithLabelValues(format, status).Inc()
}

func (m *Metrics) IncFetchErrors(errorType string) {
	m.FetchErrors.WithLabelValues(errorType).Inc()
}
