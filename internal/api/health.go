// Copyright (c) 2026 Triply. All rights reserved.

package api

import (
	"log/slog"
	"net/http"

	"github.com/triply-app/triply/internal/platform/respond"
)

// HealthDependencies holds the dependency checkers the readiness probe runs.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client backing the ranking cache.
	CheckCache func() error
}

type probeHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the handlers for GET /health and GET /ready.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &probeHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness reports that the process is up. It never touches dependencies.
func (handler *probeHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

/*
readiness verifies that every backing service is reachable.

Returns:
  - 200 with per-dependency results when everything answers.
  - 503 when any dependency fails, so load balancers stop routing here.
*/
func (handler *probeHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]string{}
	httpStatus := http.StatusOK

	for name, check := range map[string]func() error{
		"postgres": handler.dependencies.CheckDatabase,
		"redis":    handler.dependencies.CheckCache,
	} {
		if check == nil {
			continue
		}
		if err := check(); err != nil {
			checks[name] = err.Error()
			httpStatus = http.StatusServiceUnavailable
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
			continue
		}
		checks[name] = "ok"
	}

	status := "ready"
	if httpStatus != http.StatusOK {
		status = "degraded"
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		"status": status,
		"checks": checks,
	}})
}
