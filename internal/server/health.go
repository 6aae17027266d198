package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HealthChecker is the readiness probe: it reports whether storage is connected and reachable.
type HealthChecker struct {
	gate *Gate
	log  *slog.Logger
}

func NewHealthChecker(gate *Gate, log *slog.Logger) *HealthChecker {
	return &HealthChecker{gate: gate, log: log}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing readiness checks...")

	var err error
	status := make(map[string]string)
	overallStatus := http.StatusOK

	store, ready := h.gate.Get()
	switch {
	case !ready:
		status["database"] = "initializing"
		overallStatus = http.StatusServiceUnavailable
	default:
		if err = store.Ping(req.Context()); err != nil {
			status["database"] = "unavailable"
			overallStatus = http.StatusServiceUnavailable
			h.log.WarnContext(req.Context(), "Readiness check failed: DB ping", "error", err)
		} else {
			status["database"] = "ok"
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err = json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write readiness response", "error", err)
	}

	h.log.DebugContext(req.Context(), "Readiness checks completed", "status", overallStatus)
}
