package domain

// Passport is the self-contained travel credential carried in handoff
// frames. It is never stored as-is; its fields are folded into the user
// record and inventory rows on admission.
type Passport struct {
	AgentID     string  `json:"agent_id"`
	AgentName   string  `json:"agent_name,omitempty"`
	SourceWorld string  `json:"source_world"`
	TargetWorld string  `json:"target_world"`
	TargetURL   string  `json:"target_url,omitempty"`
	Timestamp   float64 `json:"timestamp"`
	Inventory   string  `json:"inventory,omitempty"`
}

// PassportItem is one item descriptor inside a passport's serialized
// inventory list. Quantity is decoded as float64 so that non-integer
// payloads can be detected instead of silently truncated.
type PassportItem struct {
	Name      string                 `json:"name"`
	Quantity  float64                `json:"quantity"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Soulbound bool                   `json:"soulbound,omitempty"`
}
