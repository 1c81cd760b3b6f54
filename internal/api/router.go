package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	// SQL console
	r.Post("/query", s.handleQuery)
	r.Post("/sql/modify", s.handleModify)

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.handleListTables)
		r.Post("/", s.handleCreateTable)

		r.Route("/{table}", func(r chi.Router) {
			r.Delete("/", s.handleDropTable)
			r.Get("/schema", s.handleTableSchema)
			r.Post("/rows", s.handleInsertRow)
			r.Delete("/rows", s.handleDeleteRows)
		})
	})

	return r
}

// Sink states reported by /health.
const (
	sinkDisabled = "disabled"
	sinkOK       = "ok"
)

// handleHealth reports the server, database and sink status. An unreachable
// database is a failure; an unhealthy sink only degrades the status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := "ok"
	mqttState := sinkHealth(r.Context(), s.mqtt)
	influxState := sinkHealth(r.Context(), s.influx)
	if mqttState != sinkOK && mqttState != sinkDisabled ||
		influxState != sinkOK && influxState != sinkDisabled {
		status = "degraded"
	}

	writeData(w, http.StatusOK, map[string]any{
		"status":   status,
		"version":  s.version,
		"database": s.store.Path(),
		"mqtt":     mqttState,
		"influxdb": influxState,
	})
}

// sinkHealth returns "disabled", "ok" or the sink's health check error.
func sinkHealth(ctx context.Context, sink Sink) string {
	if sink == nil {
		return sinkDisabled
	}
	if err := sink.HealthCheck(ctx); err != nil {
		return err.Error()
	}
	return sinkOK
}
