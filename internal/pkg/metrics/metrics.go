// Package metrics exposes Prometheus instrumentation for CineFox.
//
//	cinefox_entitlement_decisions_total   counter: access decisions by access_type and result
//	cinefox_entitlement_duration_seconds  histogram: single-item resolution latency
//	cinefox_catalog_filters_total         counter: catalog filters built by viewer kind
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultGranted = "granted"
	ResultDenied  = "denied"
	ResultError   = "error"
)

// EntitlementDecisions counts single-item decisions.
var EntitlementDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cinefox_entitlement_decisions_total",
	Help: "Entitlement decisions by access type and result.",
}, []string{"access_type", "result"})

// EntitlementDuration tracks how long single-item resolutions take.
var EntitlementDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "cinefox_entitlement_duration_seconds",
	Help:    "Entitlement resolution latency in seconds.",
	Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
}, []string{"access_type"})

// CatalogFilters counts catalog filters by viewer kind (anonymous, viewer) and result.
var CatalogFilters = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cinefox_catalog_filters_total",
	Help: "Catalog filters built, by viewer kind and result.",
}, []string{"viewer", "result"})

// ObserveDecision records one single-item decision.
func ObserveDecision(accessType string, allowed bool, err error, elapsed time.Duration) {
	result := ResultDenied
	switch {
	case err != nil:
		result = ResultError
	case allowed:
		result = ResultGranted
	}
	EntitlementDecisions.WithLabelValues(accessType, result).Inc()
	EntitlementDuration.WithLabelValues(accessType).Observe(elapsed.Seconds())
}

// ObserveCatalogFilter records one catalog filter build.
func ObserveCatalogFilter(anonymous bool, err error) {
	viewer := "viewer"
	if anonymous {
		viewer = "anonymous"
	}
	result := "ok"
	if err != nil {
		result = ResultError
	}
	CatalogFilters.WithLabelValues(viewer, result).Inc()
}

// Handler serves the Prometheus scrape endpoint on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
