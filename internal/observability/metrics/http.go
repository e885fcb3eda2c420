package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotesRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_http_requests_total",
			Help: "Total number of notes API requests",
		},
		[]string{"method", "path"},
	)

	NotesRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notes_http_requests_in_flight",
			Help: "Number of notes API requests currently being processed",
		},
	)

	NotesRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_http_request_duration_seconds",
			Help:    "Duration of notes API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
