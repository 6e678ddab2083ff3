// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bestsellers_upstream_requests_total",
		Help: "Total number of requests made to the NYT Best Sellers API",
	}, []string{"outcome", "status"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bestsellers_upstream_request_duration_seconds",
		Help:    "Duration of requests to the NYT Best Sellers API in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bestsellers_validation_failures_total",
		Help: "Total number of search requests rejected by parameter validation",
	}, []string{"field"})
)
