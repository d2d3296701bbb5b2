// Package metrics exposes Prometheus collectors for the unfurler service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Link outcomes recorded by ObserveLink.
const (
	OutcomeRendered     = "rendered"
	OutcomeUnrecognized = "unrecognized"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

// Event statuses recorded by ObserveEvent. EventBuildFailed covers both store
// lookup and render failures.
const (
	EventPosted       = "posted"
	EventBuildFailed  = "build_failed"
	EventPostFailed   = "post_failed"
	EventDecodeFailed = "decode_failed"
)

var (
	unfurlLinksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unfurl_links_total",
			Help: "Total number of shared links processed, labeled by content kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	unfurlEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unfurl_events_total",
			Help: "Total number of link_shared events handled, labeled by status.",
		},
		[]string{"status"},
	)

	unfurlResolveDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unfurl_resolve_duration_seconds",
			Help:    "Histogram of content store lookup latencies, labeled by content kind.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"kind"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveLink counts one processed link.
func ObserveLink(kind, outcome string) {
	unfurlLinksTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveEvent counts one handled link_shared event.
func ObserveEvent(status string) {
	unfurlEventsTotal.WithLabelValues(status).Inc()
}

// ObserveResolve records the duration of a content store lookup.
func ObserveResolve(kind string, duration time.Duration) {
	unfurlResolveDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
