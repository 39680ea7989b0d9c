package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Routes struct {
	MCPEndpoint    string
	MCPHandler     http.Handler
	Health         *HealthHandler
	MetricsPath    string
	MetricsHandler http.Handler
}

// RegisterAllRoutes mounts the MCP endpoint, the health probes and, when a
// metrics handler is given, the metrics endpoint.
func RegisterAllRoutes(router chi.Router, routes Routes, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if routes.Health != nil {
		router.Get("/health", routes.Health.Health)
		router.Get("/ping", routes.Health.Ping)
	}

	if routes.MetricsHandler != nil && routes.MetricsPath != "" {
		router.Method(http.MethodGet, routes.MetricsPath, routes.MetricsHandler)
	}

	// GET opens the event stream, POST carries requests, DELETE ends the
	// session.
	router.Handle(routes.MCPEndpoint, routes.MCPHandler)
}
