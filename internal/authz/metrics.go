// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/caraudioevents/authcore/internal/models"
)

var (
	// DecisionsTotal counts authorization decisions by resource type,
	// operation, and outcome.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"resource_type", "operation", "decision"},
	)

	// DecisionDuration tracks end-to-end pipeline latency.
	DecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"resource_type"},
	)

	// DeniedTotal tracks denials by stage for alerting: a spike in
	// "not_found" or "validation" from one principal suggests enumeration.
	DeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of authorization denials by pipeline stage",
		},
		[]string{"stage"}, // rate_limit, validation, not_found, policy, service_error
	)

	// AdminBypassTotal counts admin-bypass decisions.
	AdminBypassTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_admin_bypass_total",
			Help: "Total number of admin-bypass authorization decisions",
		},
	)

	// LookupsTotal counts existence-resolver outcomes.
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_resource_lookups_total",
			Help: "Total number of resource existence lookups by outcome",
		},
		[]string{"outcome"}, // found, not_found, store_error
	)
)

// invalidLabel stands in for any caller-supplied type or operation outside
// the closed enums. Label values must stay bounded: raw request strings
// would mint a new series per distinct invalid input.
const invalidLabel = "invalid"

// RecordDecision records one completed decision.
func RecordDecision(resourceType models.ResourceType, operation models.Operation, allowed bool, duration time.Duration) {
	typeLabel := invalidLabel
	if models.IsValidResourceType(resourceType) {
		typeLabel = string(resourceType)
	}
	opLabel := invalidLabel
	if models.IsValidOperation(operation) {
		opLabel = string(operation)
	}

	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	DecisionsTotal.WithLabelValues(typeLabel, opLabel, decision).Inc()
	DecisionDuration.WithLabelValues(typeLabel).Observe(duration.Seconds())
}

// RecordDenial records a denial attributed to a pipeline stage.
func RecordDenial(stage string) {
	DeniedTotal.WithLabelValues(stage).Inc()
}

// RecordLookup records an existence-resolver outcome.
func RecordLookup(outcome string) {
	LookupsTotal.WithLabelValues(outcome).Inc()
}
