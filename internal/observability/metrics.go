package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus collectors for the service.
type Metrics struct {
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	grievances    *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	creditDenials prometheus.Counter
	notifications *prometheus.CounterVec
}

// NewMetrics registers collectors on the provided registry. A nil registry
// uses the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grievance_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		grievances: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_submissions_total",
			Help: "Grievance submissions by detected priority.",
		}, []string{"priority"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_status_transitions_total",
			Help: "Status transitions by target status.",
		}, []string{"to"}),
		creditDenials: factory.NewCounter(prometheus.CounterOpts{
			Name: "grievance_credit_denials_total",
			Help: "Submissions rejected for exhausted credits.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_notifications_total",
			Help: "Notifications recorded by kind.",
		}, []string{"kind"}),
	}
}

// RecordRequest increments HTTP counters and latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordSubmission counts a filed grievance.
func (m *Metrics) RecordSubmission(priority string) {
	if m == nil {
		return
	}
	m.grievances.WithLabelValues(priority).Inc()
}

// RecordTransition counts a status change.
func (m *Metrics) RecordTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

// RecordCreditDenial counts a submission blocked by an empty balance.
func (m *Metrics) RecordCreditDenial() {
	if m == nil {
		return
	}
	m.creditDenials.Inc()
}

// RecordNotification counts a recorded notification.
func (m *Metrics) RecordNotification(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}
