package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec // labels: path, code
	HTTPDuration *prometheus.HistogramVec

	ProviderCalls    *prometheus.CounterVec // outcome label: ok|retry|failed
	EstimatedEntries prometheus.Counter
	StageDuration    *prometheus.HistogramVec // stage label
	Results          *prometheus.CounterVec   // flag label
	Unassigned       prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vanroute_http_requests_total",
			Help: "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vanroute_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"path"}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vanroute_provider_calls_total",
			Help: "Travel-time provider calls by outcome.",
		}, []string{"outcome"}),
		EstimatedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vanroute_estimated_entries_total",
			Help: "Matrix entries that fell back to straight-line estimates.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vanroute_stage_duration_seconds",
			Help:    "Duration of optimizer stages.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"stage"}),
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vanroute_results_total",
			Help: "Optimizer results by status flag.",
		}, []string{"flag"}),
		Unassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vanroute_unassigned_locations_total",
			Help: "Locations that could not be placed on any van.",
		}),
	}

	reg.MustRegister(
		c.HTTPRequests, c.HTTPDuration,
		c.ProviderCalls, c.EstimatedEntries,
		c.StageDuration, c.Results, c.Unassigned,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) ObserveHTTP(path string, code int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	c.HTTPDuration.WithLabelValues(path).Observe(d.Seconds())
}
