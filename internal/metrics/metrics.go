package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the journey service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	BooksCreated       prometheus.Counter
	CustodyEvents      *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	MetadataLookups    *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BooksCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookjourney_books_created_total",
			Help: "Total number of books registered",
		}),
		CustodyEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookjourney_custody_events_total",
			Help: "Total number of custody events appended, by event type",
		}, []string{"type"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookjourney_validation_failures_total",
			Help: "Rejected requests, by operation and reason",
		}, []string{"operation", "reason"}),
		MetadataLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookjourney_metadata_lookups_total",
			Help: "Metadata lookups against the external catalog, by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookjourney_http_requests_total",
			Help: "HTTP requests served, by method and status code",
		}, []string{"method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookjourney_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (m *Metrics) IncBooksCreated() {
	if m == nil {
		return
	}
	m.BooksCreated.Inc()
}

func (m *Metrics) IncCustodyEvent(eventType string) {
	if m == nil {
		return
	}
	m.CustodyEvents.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncValidationFailure(operation, reason string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) IncMetadataLookup(result string) {
	if m == nil {
		return
	}
	m.MetadataLookups.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
