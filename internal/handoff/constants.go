package handoff

// Rejection reasons produced by the engine itself; validation reasons come
// from the passport package.
const (
	ReasonLowReputation   = "low_reputation"
	ReasonProcessingError = "processing_error"
)

// ResultConfirmed labels successful handoffs in metrics
const ResultConfirmed = "confirmed"

// SceneDescription is the hub's blurb shown to arriving travelers
const SceneDescription = "Central hub for all travelers. Safe zone, no PvP."

// Log messages
const (
	LogMsgRequestReceived  = "Handoff request received"
	LogMsgRejected         = "Handoff rejected"
	LogMsgConfirmed        = "Handoff confirmed"
	LogMsgSynced           = "Inventory synced from passport"
	LogMsgSyncFailed       = "Inventory sync failed, travel proceeds"
	LogMsgProcessingFailed = "Handoff processing failed"
)
