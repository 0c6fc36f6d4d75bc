package discovery

// CodeDiscoverError is the structured error code for store failures
const CodeDiscoverError = "DISCOVER_ERROR"

// WorldDescription is the hub's listing blurb
const WorldDescription = "Central hub for travelers"

// Log messages
const (
	LogMsgRequestReceived = "Discover request received"
	LogMsgResponded       = "Discover response sent"
	LogMsgFailed          = "Discover request failed"
)
