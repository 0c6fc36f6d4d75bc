package domain

import "time"

// Session is one live connection of a traveler to this world. The in-memory
// registry entry is authoritative; the persisted row is an audit mirror and
// is never reloaded after a restart.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AgentID     string    `json:"agent_id"`
	WorldID     string    `json:"world_id"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`
}
