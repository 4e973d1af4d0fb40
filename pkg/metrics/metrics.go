// Package metrics provides Prometheus metrics for the Dahlia service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilmsCreatedTotal tracks successfully created films
	FilmsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "films",
			Name:      "created_total",
			Help:      "Total number of films created",
		},
	)

	// FilmsUpdatedTotal tracks successfully updated films
	FilmsUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "films",
			Name:      "updated_total",
			Help:      "Total number of films updated",
		},
	)

	// FilmsDeletedTotal tracks successfully deleted films
	FilmsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "films",
			Name:      "deleted_total",
			Help:      "Total number of films deleted",
		},
	)

	// WriteConflictsTotal tracks rejected writes by reason
	WriteConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "films",
			Name:      "write_conflicts_total",
			Help:      "Total number of rejected writes by reason",
		},
		[]string{"reason"},
	)

	// SearchesTotal tracks criteria searches by outcome
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "films",
			Name:      "searches_total",
			Help:      "Total number of criteria searches by outcome",
		},
		[]string{"outcome"},
	)
)

// Conflict reasons for WriteConflictsTotal.
const (
	ReasonDuplicate       = "duplicate"
	ReasonVersionInvalid  = "version_invalid"
	ReasonVersionOutdated = "version_outdated"
	ReasonNotFound        = "not_found"
)
