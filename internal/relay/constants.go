package relay

import "time"

// Connection tuning
const (
	// DefaultReconnectDelay is the initial delay before attempting to reconnect
	DefaultReconnectDelay = 5 * time.Second

	// MaxReconnectDelay is the maximum delay between reconnection attempts
	MaxReconnectDelay = 60 * time.Second

	// ReconnectMultiplier is the multiplier for exponential backoff
	ReconnectMultiplier = 2.0

	// PingInterval is how often to send heartbeat frames
	PingInterval = 15 * time.Second

	// LivenessTimeout bounds the silence tolerated on the link. The read
	// deadline is pushed out on every inbound frame (pong included); if it
	// expires the link is treated as closed and the reconnect path runs.
	LivenessTimeout = 45 * time.Second

	// WriteTimeout is the timeout for writing frames
	WriteTimeout = 10 * time.Second

	// ReadBufferSize is the WebSocket read buffer size
	ReadBufferSize = 4096

	// WriteBufferSize is the WebSocket write buffer size
	WriteBufferSize = 4096
)

// Capabilities this world declares when registering with the relay
var DefaultCapabilities = []string{"persistent", "inventory", "portals"}

// Log messages
const (
	LogMsgConnecting       = "Connecting to relay"
	LogMsgConnected        = "Connected to relay"
	LogMsgDisconnected     = "Disconnected from relay"
	LogMsgReconnecting     = "Reconnecting to relay"
	LogMsgRegistered       = "Registered with relay"
	LogMsgClientStopped    = "Relay client stopped"
	LogMsgReadError        = "Error reading from relay"
	LogMsgSendSkipped      = "Dropped outbound frame, relay link not open"
	LogMsgWelcome          = "Relay welcome"
	LogMsgRegisterConfirm  = "Relay confirmed registration"
	LogMsgRelayError       = "Relay reported error"
	LogMsgUnknownFrame     = "Unknown frame type"
	LogMsgFrameReceived    = "Frame received"
	LogMsgUnparseableFrame = "Failed to decode frame"
)
