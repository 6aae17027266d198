package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/mnemosyne/internal/lib/logger/sl"
)

const (
	runningMessage  = "App is running"
	healthyMessage  = "App is Healthy"
	notReadyMessage = "database is not ready"
)

// ErrorResponse is the JSON body of every failed data request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the public API routes.
type Handler struct {
	log          *slog.Logger
	gate         *Gate
	queryTimeout time.Duration
}

func NewHandler(log *slog.Logger, gate *Gate, queryTimeout time.Duration) *Handler {
	return &Handler{log: log, gate: gate, queryTimeout: queryTimeout}
}

// HandleRoot reports that the process is up, whatever the database state.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, r, http.StatusOK, runningMessage)
}

// HandleHealth is the liveness probe. It never touches the database.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, r, http.StatusOK, healthyMessage)
}

// HandleListEmployees returns every employee document as a JSON array.
func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	store, ready := h.gate.Get()
	if !ready {
		h.log.WarnContext(r.Context(), "Employees requested before storage is ready")
		h.writeJSON(w, r, http.StatusServiceUnavailable, ErrorResponse{Error: notReadyMessage})
		return
	}

	ctx := r.Context()
	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	employees, err := store.ListEmployees(ctx)
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to list employees", sl.Err(err))
		h.writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	h.log.DebugContext(r.Context(), "Employees listed", "count", len(employees))
	h.writeJSON(w, r, http.StatusOK, employees)
}

func (h *Handler) writeText(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to write response", sl.Err(err))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to write response", sl.Err(err))
	}
}
