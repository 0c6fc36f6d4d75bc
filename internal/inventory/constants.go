package inventory

// Log messages
const (
	LogMsgSyncStopped = "Inventory sync stopped at failing item"
)
