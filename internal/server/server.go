package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wandermesh/waystation/internal/database"
	"github.com/wandermesh/waystation/internal/handler"
	"github.com/wandermesh/waystation/internal/metrics"
)

// Server is the read-only status surface: health probes, world status, and
// prometheus metrics. It never mutates world state.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the chi router and wires the status endpoints
func NewServer(port int, worldName, displayName string, dbPool database.Pool, relay handler.RelayStatus, sessions handler.OnlineCounter) *Server {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz(relay))
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", handler.HandleStatus(worldName, displayName, relay, sessions))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving in a background goroutine
func (s *Server) Start() {
	go func() {
		slog.Info("Status server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Status server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs each request at debug level
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
