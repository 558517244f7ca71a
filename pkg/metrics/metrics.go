package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mainstay_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts authorization decisions by outcome
	// (allowed|denied|unauthenticated).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mainstay_permission_checks_total",
			Help: "Total number of permission checks at the enforcement boundary",
		},
		[]string{"permission", "result"},
	)

	// RBACSeedRuns counts initializer executions by result (success|failure).
	RBACSeedRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mainstay_rbac_seed_runs_total",
			Help: "Total number of RBAC initializer runs",
		},
		[]string{"result"},
	)
)
