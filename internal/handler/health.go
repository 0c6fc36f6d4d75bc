package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wandermesh/waystation/internal/database"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Relay   string `json:"relay,omitempty"`
}

// RelayStatus reports the relay link state for the status surface
type RelayStatus interface {
	IsConnected() bool
}

// HandleHealthz provides a basic liveness check that also reports the
// relay link state. The process is considered live even when the relay is
// down; reconnection is the client's job, not the orchestrator's.
func HandleHealthz(relay RelayStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relayState := "disconnected"
		if relay.IsConnected() {
			relayState = "connected"
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Relay: relayState})
	}
}

// HandleReadyz provides a readiness check that validates database connectivity
func HandleReadyz(dbPool database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			slog.Error("Readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "not ready",
				Message: "database unreachable",
			})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
