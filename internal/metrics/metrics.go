// Package metrics provides Prometheus observability metrics for the seat
// allocation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// AllocationsTotal counts allocation batches that committed successfully.
var AllocationsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocation",
	Name:      "batches_total",
	Help:      "Number of allocation batches that committed successfully",
})

// AllocationFailuresTotal counts allocation batches rejected or rolled back.
var AllocationFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "allocation",
	Name:      "batch_failures_total",
	Help:      "Number of allocation batches that failed, by reason",
}, []string{"reason"})

// SeatsAllocatedTotal counts individual seats granted to departments.
var SeatsAllocatedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocation",
	Name:      "seats_allocated_total",
	Help:      "Total number of seats granted across all allocation batches",
})

// SeatsAvailable tracks the number of available seats after the most recent
// write. High-water drift against the database is bounded by write frequency.
var SeatsAvailable = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "allocation",
	Name:      "seats_available",
	Help:      "Number of seats currently available across all offices",
})

// NotificationFailuresTotal counts per-department SMS dispatch failures.
var NotificationFailuresTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocation",
	Name:      "notification_failures_total",
	Help:      "Number of department notifications that could not be published",
})
