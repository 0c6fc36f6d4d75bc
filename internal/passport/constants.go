package passport

// Rejection reason codes returned to the sending world and recorded in the
// audit log. These are wire-visible values; do not rename.
const (
	ReasonMissingPassport    = "missing_passport"
	ReasonMissingAgentID     = "missing_agent_id"
	ReasonMissingSourceWorld = "missing_source_world"
	ReasonMissingTargetWorld = "missing_target_world"
	ReasonMissingTimestamp   = "missing_timestamp"
	ReasonPassportExpired    = "passport_expired"
	ReasonFutureTimestamp    = "future_timestamp"
	ReasonInvalidInventory   = "invalid_inventory_json"
	ReasonInventoryNotArray  = "inventory_not_array"
	ReasonInventoryTooLarge  = "inventory_too_large"
	ReasonItemMissingName    = "item_missing_name"
	ReasonInvalidQuantity    = "invalid_quantity"
	ReasonQuantityTooLarge   = "quantity_too_large"
	ReasonQuantityNotInteger = "quantity_not_integer"
)

// EventRejectedPassport is the audit log event type for rejected passports
const EventRejectedPassport = "rejected_passport"

// Log messages
const (
	LogMsgSuspiciousLogged = "Suspicious passport logged"
	LogMsgAuditWriteFailed = "Failed to write audit entry"
)
