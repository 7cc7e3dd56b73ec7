package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	RateLimitHitsTotal prometheus.Counter

	LeadsReturnedTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "d7proxy_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"route", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "d7proxy_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
			[]string{"route"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "d7proxy_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		UpstreamRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "d7proxy_upstream_requests_total",
				Help: "Total number of upstream API calls",
			},
			[]string{"op", "status"},
		),
		UpstreamRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "d7proxy_upstream_request_duration_seconds",
				Help:    "Upstream API call duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 45},
			},
			[]string{"op"},
		),

		RateLimitHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "d7proxy_rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		LeadsReturnedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "d7proxy_leads_returned_total",
				Help: "Total number of normalized leads returned to callers",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) RecordUpstreamRequest(op, status string, duration time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(op, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitsTotal.Inc()
}

func (m *Metrics) RecordLeads(count int) {
	m.LeadsReturnedTotal.Add(float64(count))
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
