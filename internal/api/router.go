package api

import (
	"net/http"

	"van-route-service/internal/api/handlers"
	"van-route-service/internal/platform/metrics"

	"github.com/sirupsen/logrus"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Optimizer            handlers.RouteOptimizer
	DefaultReturnToDepot bool
	HealthChecks         []handlers.HealthCheck
	Metrics              *metrics.Collector
	Log                  logrus.FieldLogger
}

// NewRouter mounts the health, routes and metrics endpoints behind the
// request-id and logging middleware.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Optimizer:            d.Optimizer,
		DefaultReturnToDepot: d.DefaultReturnToDepot,
		Log:                  d.Log,
	}

	mux.HandleFunc("/health", handlers.Health(d.HealthChecks...))
	mux.HandleFunc("/routes", routeHandler.Optimize)
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	return requestIDMiddleware(loggingMiddleware(d.Log, d.Metrics, mux))
}
