package domain

import "time"

// InventoryItem is one persisted item stack, keyed by (user, item name).
// A row with quantity zero must never exist; it is deleted instead.
type InventoryItem struct {
	UserID      string                 `json:"user_id"`
	Name        string                 `json:"name"`
	Quantity    int                    `json:"quantity"`
	Data        map[string]interface{} `json:"data,omitempty"`
	OriginWorld string                 `json:"origin_world"`
	Soulbound   bool                   `json:"soulbound"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Defaults used when an item's attribute blob lacks presentation fields.
const (
	DefaultItemIcon = "📦"
	DefaultItemType = "misc"
)
