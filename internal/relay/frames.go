package relay

import (
	"time"

	"github.com/wandermesh/waystation/internal/domain"
)

// Frame kind tags as they appear on the wire
const (
	TypeRegisterWorld    = "register_world"
	TypePing             = "ping"
	TypePong             = "pong"
	TypeWelcome          = "welcome"
	TypeRegisterConfirm  = "register_confirm"
	TypeHandoffRequest   = "handoff_request"
	TypeHandoffConfirm   = "handoff_confirm"
	TypeHandoffRejected  = "handoff_rejected"
	TypeDiscover         = "discover"
	TypeDiscoverResponse = "discover_response"
	TypeError            = "error"
)

// Frame is implemented by every outbound frame kind. The method pins the
// set of sendable frames at compile time instead of allowing arbitrary
// maps onto the wire.
type Frame interface {
	FrameType() string
}

// envelope is used to sniff the kind tag before full decoding
type envelope struct {
	Type string `json:"type"`
}

// Timestamp returns the current time as float seconds since epoch, the
// wire representation shared by all timestamped frames.
func Timestamp() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Inbound frames

// WelcomeFrame is the relay's greeting after the socket opens
type WelcomeFrame struct {
	Type         string `json:"type"`
	RelayName    string `json:"relay_name"`
	RelayVersion string `json:"relay_version"`
}

// RegisterConfirmFrame acknowledges a register_world frame
type RegisterConfirmFrame struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// HandoffRequest carries an inbound traveler and their passport
type HandoffRequest struct {
	Type      string           `json:"type"`
	Passport  *domain.Passport `json:"passport"`
	FromAgent string           `json:"from_agent"`
	FromWorld string           `json:"from_world"`
}

// DiscoverRequest asks what destinations this world advertises
type DiscoverRequest struct {
	Type    string `json:"type"`
	AgentID string `json:"agent_id"`
}

// ErrorFrame is both inbound (relay-side errors, log-only) and outbound
// (this world's structured failures, e.g. DISCOVER_ERROR).
type ErrorFrame struct {
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
	Code      string  `json:"code,omitempty"`
	Message   string  `json:"message"`
}

func (f ErrorFrame) FrameType() string { return TypeError }

// Outbound frames

// RegisterWorldFrame declares this world's identity and capabilities
type RegisterWorldFrame struct {
	Type         string   `json:"type"`
	AgentID      string   `json:"agent_id"`
	WorldName    string   `json:"world_name"`
	WorldURL     string   `json:"world_url"`
	DisplayName  string   `json:"display_name"`
	Capabilities []string `json:"capabilities"`
}

func (f RegisterWorldFrame) FrameType() string { return TypeRegisterWorld }

// PingFrame is the fixed-interval heartbeat
type PingFrame struct {
	Type      string  `json:"type"`
	AgentID   string  `json:"agent_id"`
	Timestamp float64 `json:"timestamp"`
}

func (f PingFrame) FrameType() string { return TypePing }

// Scene is the world payload handed to an arriving traveler
type Scene struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	SpawnPoint    SpawnPoint    `json:"spawn_point"`
	Assets        AssetManifest `json:"assets"`
	Portals       []ScenePortal `json:"portals"`
	PlayersOnline int           `json:"players_online"`
	Rules         HouseRules    `json:"rules"`
}

// SpawnPoint is where an arriving traveler materializes
type SpawnPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AssetManifest lists the content an arriving client should fetch
type AssetManifest struct {
	Textures []string `json:"textures"`
	Models   []string `json:"models"`
}

// ScenePortal is one destination listed in the scene payload
type ScenePortal struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// HouseRules are this world's conduct flags
type HouseRules struct {
	PvP      bool `json:"pvp"`
	Trading  bool `json:"trading"`
	Building bool `json:"building"`
}

// HandoffConfirmFrame admits a traveler: the outbound passport plus scene
type HandoffConfirmFrame struct {
	Type      string          `json:"type"`
	Timestamp float64         `json:"timestamp"`
	Passport  domain.Passport `json:"passport"`
	Scene     Scene           `json:"scene"`
}

func (f HandoffConfirmFrame) FrameType() string { return TypeHandoffConfirm }

// HandoffRejectedFrame refuses a traveler with a machine-readable reason
type HandoffRejectedFrame struct {
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
	Reason    string  `json:"reason"`
	Message   string  `json:"message"`
}

func (f HandoffRejectedFrame) FrameType() string { return TypeHandoffRejected }

// DiscoverPortal is one destination in a discover response, annotated with
// the requester's access
type DiscoverPortal struct {
	PortalID           int     `json:"portal_id"`
	Name               string  `json:"name"`
	DestinationURL     string  `json:"destination_url"`
	Type               string  `json:"type"`
	Description        string  `json:"description"`
	Locked             bool    `json:"locked"`
	RequiredReputation float64 `json:"required_reputation"`
}

// DiscoverResponseFrame answers a discover request
type DiscoverResponseFrame struct {
	Type             string           `json:"type"`
	Timestamp        float64          `json:"timestamp"`
	WorldName        string           `json:"world_name"`
	WorldDescription string           `json:"world_description"`
	Portals          []DiscoverPortal `json:"portals"`
	PlayersOnline    int              `json:"players_online"`
	YourReputation   float64          `json:"your_reputation"`
}

func (f DiscoverResponseFrame) FrameType() string { return TypeDiscoverResponse }
