package domain

// Portal is one destination this world advertises to travelers. Non-public
// portals are invisible to discovery and the scene payload.
type Portal struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	URL                string  `json:"url"`
	WorldType          string  `json:"world_type"`
	Description        string  `json:"description"`
	IsPublic           bool    `json:"is_public"`
	RequiresReputation float64 `json:"requires_reputation"`
}
