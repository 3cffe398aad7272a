// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filegate_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filegate_token_validations_total",
			Help: "Total number of token validations by result",
		},
		[]string{"result"},
	)

	LeasesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filegate_leases_stored_total",
			Help: "Total number of file leases created",
		},
	)

	LeasesRenewed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filegate_leases_renewed_total",
			Help: "Total number of lapsed leases renewed on access",
		},
	)

	LeasesReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filegate_leases_reclaimed_total",
			Help: "Total number of leases tombstoned by the sweeper",
		},
	)

	OracleFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filegate_oracle_failures_total",
			Help: "Total number of membership oracle calls that failed closed",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "filegate_sweep_duration_seconds",
			Help: "Duration of expiry sweep runs in seconds",
		},
	)
)
