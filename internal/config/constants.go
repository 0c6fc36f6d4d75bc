package config

import "time"

// Default configuration values
const (
	DefaultRelayURL    = "wss://relay.wandermesh.net"
	DefaultWorldName   = "waystation"
	DefaultWorldURL    = "https://waystation.wandermesh.net"
	DefaultDisplayName = "Waystation - Central Hub"

	DefaultHTTPPort = 3000

	DefaultMaxInventorySlots = 64
	DefaultGuestMaxSlots     = 8
	DefaultMaxStackSize      = 999

	DefaultPassportMaxAge = 5 * time.Minute

	DefaultReputation          = 0.0
	DefaultReputationThreshold = 10.0

	DefaultSessionTimeout  = 30 * time.Minute
	DefaultCleanupInterval = time.Minute

	DefaultAuditRetentionDays = 30
)
