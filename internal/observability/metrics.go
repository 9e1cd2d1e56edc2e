package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics mengumpulkan metrik Prometheus untuk aplikasi.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	refreshDuration prometheus.Histogram
	refreshFailures prometheus.Counter
	mutationsTotal  *prometheus.CounterVec
	loading         prometheus.Gauge
}

// NewMetrics menginisialisasi registry dan metrik dasar.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "omniorder_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "omniorder_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	refresh := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "omniorder_store_refresh_duration_seconds",
		Help:    "Duration of full data store reloads.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
	refreshFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "omniorder_store_refresh_failures_total",
		Help: "Data store reloads that failed.",
	})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "omniorder_store_mutations_total",
		Help: "Data store mutations by resource, operation and result.",
	}, []string{"resource", "op", "result"})
	loading := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "omniorder_store_loading",
		Help: "1 while the data store is loading.",
	})
	registry.MustRegister(requests, duration, refresh, refreshFailures, mutations, loading)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		refreshDuration: refresh,
		refreshFailures: refreshFailures,
		mutationsTotal:  mutations,
		loading:         loading,
	}
}

// Handler mengembalikan http.Handler untuk endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware mencatat metrik untuk setiap permintaan HTTP.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRefresh records one full reload.
func (m *Metrics) ObserveRefresh(elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(elapsed.Seconds())
	if failed {
		m.refreshFailures.Inc()
	}
}

// Mutation results used as the result label.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ObserveMutation counts one store mutation with its result label.
func (m *Metrics) ObserveMutation(resource, op, result string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(resource, op, result).Inc()
}

// SetLoading mirrors the store loading flag.
func (m *Metrics) SetLoading(loading bool) {
	if m == nil {
		return
	}
	if loading {
		m.loading.Set(1)
		return
	}
	m.loading.Set(0)
}

// Registerer mengekspos registry untuk pendaftaran metrik khusus.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
