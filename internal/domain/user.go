package domain

import "time"

// User represents a traveler known to this world. The primary key is the
// agent ID carried in passports, so the same traveler resolves to the same
// account on every visit.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IsGuest    bool      `json:"is_guest"`
	MaxSlots   int       `json:"max_slots"`
	CanTrade   bool      `json:"can_trade"`
	Reputation float64   `json:"reputation"`
	DiscordID  string    `json:"discord_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeen   time.Time `json:"last_seen"`
}

// DefaultUsername is assigned when a passport carries no display name.
const DefaultUsername = "Traveler"
