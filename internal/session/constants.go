package session

// Log messages
const (
	LogMsgSessionCreated = "Session created"
	LogMsgSessionEnded   = "Session ended"
	LogMsgSessionsPruned = "Pruned stale session mirror rows"
)
