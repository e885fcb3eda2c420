package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication gate outcomes by result and reason",
		},
		[]string{"result", "reason"},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_total",
			Help: "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed JWT validations",
		},
	)

	IdentityResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_resolutions_total",
			Help: "Total number of identity resolutions by result",
		},
		[]string{"result"},
	)

	IdentityCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_cache_hits_total",
			Help: "Total number of identity cache hits",
		},
		[]string{"backend"},
	)

	IdentityCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_cache_misses_total",
			Help: "Total number of identity cache misses",
		},
		[]string{"backend"},
	)

	IdentityCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_cache_errors_total",
			Help: "Total number of identity cache backend errors",
		},
		[]string{"backend", "operation"},
	)

	IdentityCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "identity_cache_size",
			Help: "Current number of entries in the in-memory identity cache",
		},
	)
)
