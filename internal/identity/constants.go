package identity

import "time"

// User cache defaults
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// Log messages
const (
	LogMsgUserCreated    = "Created new guest user"
	LogMsgGuestCleanedUp = "Cleaned up guest inventory"
	LogMsgIdentityLinked = "Linked external identity"
	LogMsgLastSeenFailed = "Failed to refresh last_seen"
)
