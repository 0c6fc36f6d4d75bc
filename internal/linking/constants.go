package linking

// Log messages
const (
	LogMsgLinked                = "External identity linked"
	LogMsgLinkFailed            = "Link attempt failed"
	LogMsgBotReady              = "Linking bot ready"
	LogMsgCommandRegisterFailed = "Failed to register /link command"
	LogMsgRespondFailed         = "Failed to respond to interaction"
)
