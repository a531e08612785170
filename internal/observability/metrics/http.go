package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ConsoleMetrics collects the gateway's HTTP surface plus the two domain
// flows: transform sessions and ask round-trips.
type ConsoleMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	transformTotal    *prometheus.CounterVec
	transformDuration *prometheus.HistogramVec
	askTotal          *prometheus.CounterVec
	askDuration       *prometheus.HistogramVec
	askRelevance      *prometheus.HistogramVec
	backendErrors     *prometheus.CounterVec
}

func NewConsoleMetrics(service string) *ConsoleMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docshield",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docshield",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docshield",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	transformTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docshield",
			Subsystem: "transform",
			Name:      "sessions_total",
			Help:      "Total transform sessions by outcome.",
		},
		[]string{"service", "status"},
	)
	transformDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docshield",
			Subsystem: "transform",
			Name:      "session_duration_seconds",
			Help:      "Upload-to-commit duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	askTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docshield",
			Subsystem: "ask",
			Name:      "requests_total",
			Help:      "Total ask round-trips by outcome.",
		},
		[]string{"service", "status"},
	)
	askDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docshield",
			Subsystem: "ask",
			Name:      "duration_seconds",
			Help:      "Ask round-trip duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	askRelevance := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docshield",
			Subsystem: "ask",
			Name:      "relevance",
			Help:      "Distribution of reported answer relevance.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)
	backendErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docshield",
			Subsystem: "backend",
			Name:      "errors_total",
			Help:      "Total backend gateway failures by operation.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		transformTotal,
		transformDuration,
		askTotal,
		askDuration,
		askRelevance,
		backendErrors,
	)

	return &ConsoleMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		transformTotal:    transformTotal,
		transformDuration: transformDuration,
		askTotal:          askTotal,
		askDuration:       askDuration,
		askRelevance:      askRelevance,
		backendErrors:     backendErrors,
	}
}

func (m *ConsoleMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ConsoleMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/selection/"):
		return "/v1/selection/{document_id}"
	case strings.HasPrefix(path, "/v1/categories/"):
		return "/v1/categories/{category}/toggle"
	case strings.HasPrefix(path, "/v1/example/"):
		return "/v1/example/{category}"
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{category}"
	default:
		return path
	}
}

func (m *ConsoleMetrics) RecordTransform(service string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.transformTotal.WithLabelValues(service, status).Inc()
	m.transformDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *ConsoleMetrics) RecordAsk(service string, err error, relevance float64, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.askTotal.WithLabelValues(service, status).Inc()
	m.askDuration.WithLabelValues(service).Observe(duration.Seconds())
	if err == nil && relevance > 0 {
		m.askRelevance.WithLabelValues(service).Observe(relevance)
	}
}

func (m *ConsoleMetrics) RecordBackendError(service, operation string) {
	if operation == "" {
		operation = "unknown"
	}
	m.backendErrors.WithLabelValues(service, operation).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
