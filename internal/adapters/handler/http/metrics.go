package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	httpRequestsInProgress prometheus.Gauge

	votersRegistered prometheus.Counter
	votesCast        *prometheus.CounterVec
	voteRejections   *prometheus.CounterVec

	handler http.Handler
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		httpRequestsInProgress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "Current number of HTTP requests being processed",
			},
		),
		votersRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "voters_registered_total",
				Help: "Voters registered since start",
			},
		),
		votesCast: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "votes_cast_total",
				Help: "Votes committed since start, by option",
			},
			[]string{"option"},
		),
		voteRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vote_rejections_total",
				Help: "Rejected lifecycle requests, by reason",
			},
			[]string{"reason"},
		),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInProgress,
		m.votersRegistered,
		m.votesCast,
		m.voteRejections,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Middleware records request metrics labelled by chi route pattern, which
// keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		m.httpRequestsInProgress.Inc()
		defer m.httpRequestsInProgress.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := strconv.Itoa(ww.Status())

		m.httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) VoterRegistered() {
	if m != nil {
		m.votersRegistered.Inc()
	}
}

func (m *Metrics) VoteCast(option string) {
	if m != nil {
		m.votesCast.WithLabelValues(option).Inc()
	}
}

func (m *Metrics) Rejected(reason string) {
	if m != nil {
		m.voteRejections.WithLabelValues(reason).Inc()
	}
}
