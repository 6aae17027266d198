package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/UnknownOlympus/mnemosyne/internal/lib/logger/sl"
)

const readHeaderTimeout = 5 * time.Second

// NewHTTPServer returns a server listening on every interface at port.
func NewHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Run binds srv and serves until ctx is cancelled, then shuts it down within shutdownTimeout.
// It returns the listener error if the server could not be started.
func Run(ctx context.Context, log *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	return Serve(ctx, log, srv, listener, shutdownTimeout)
}

// Serve is Run on an already bound listener.
func Serve(
	ctx context.Context, log *slog.Logger, srv *http.Server, listener net.Listener, shutdownTimeout time.Duration,
) error {
	serveErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "HTTP server listening", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	log.InfoContext(ctx, "Shutting down HTTP server", "addr", listener.Addr().String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "HTTP server shutdown failed", sl.Err(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	return nil
}

// NewMonitoringHandler serves Prometheus metrics from reg and the readiness probe.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, gate *Gate) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/readyz", NewHealthChecker(gate, log))

	return mux
}

// StartMonitoringServer serves /metrics and /readyz on port until ctx is cancelled.
func StartMonitoringServer(
	ctx context.Context, log *slog.Logger, reg *prometheus.Registry, gate *Gate, port int,
	shutdownTimeout time.Duration,
) {
	srv := NewHTTPServer(port, NewMonitoringHandler(log, reg, gate))
	if err := Run(ctx, log, srv, shutdownTimeout); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
	}
}
