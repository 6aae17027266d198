package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
)

// NewRouter wires the public routes with request id, panic recovery, logging and metrics.
func NewRouter(log *slog.Logger, handler *Handler, appMetrics *metrics.Metrics) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(instrument(appMetrics))
	router.Use(middleware.Recoverer)

	router.Get("/", handler.HandleRoot)
	router.Get("/health", handler.HandleHealth)
	router.Get("/employeesInfo", handler.HandleListEmployees)

	return router
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			log.DebugContext(r.Context(), "Request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.Status(),
				"bytes", wrapped.BytesWritten(),
				"duration", time.Since(startTime).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// instrument records request counts and latency labelled by the matched route pattern.
func instrument(appMetrics *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			appMetrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			appMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(startTime).Seconds())
		})
	}
}
