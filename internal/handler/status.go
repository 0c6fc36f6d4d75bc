package handler

import (
	"net/http"
	"time"
)

// OnlineCounter reports how many agents are currently connected
type OnlineCounter interface {
	OnlineCount() int
}

// StatusResponse is the informational world status payload
type StatusResponse struct {
	World          string `json:"world"`
	DisplayName    string `json:"display_name"`
	RelayConnected bool   `json:"relay_connected"`
	PlayersOnline  int    `json:"players_online"`
	Timestamp      int64  `json:"timestamp"`
}

// HandleStatus returns world identity, relay state, and the online count.
// Pass-through reads only, no mutation.
func HandleStatus(worldName, displayName string, relay RelayStatus, sessions OnlineCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			World:          worldName,
			DisplayName:    displayName,
			RelayConnected: relay.IsConnected(),
			PlayersOnline:  sessions.OnlineCount(),
			Timestamp:      time.Now().UnixMilli(),
		})
	}
}
