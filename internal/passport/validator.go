package passport

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/wandermesh/waystation/internal/domain"
)

// Limits holds the structural bounds a passport must satisfy. They come
// from configuration and are fixed for the process lifetime.
type Limits struct {
	MaxAge            time.Duration
	MaxInventorySlots int
	MaxStackSize      int
}

// Result is the outcome of a validation pass. Reason is a machine-readable
// code; Details is free text intended for the audit trail.
type Result struct {
	Valid   bool
	Reason  string
	Details string
}

func invalid(reason string) Result {
	return Result{Reason: reason}
}

func invalidf(reason, format string, args ...interface{}) Result {
	return Result{Reason: reason, Details: fmt.Sprintf(format, args...)}
}

// Validate checks a passport's structural and temporal validity. It is
// pure and deterministic given its inputs: the clock is passed in, checks
// run in a fixed order and short-circuit on the first failure.
func Validate(p *domain.Passport, now time.Time, limits Limits) Result {
	if p == nil {
		return invalid(ReasonMissingPassport)
	}
	if p.AgentID == "" {
		return invalid(ReasonMissingAgentID)
	}
	if p.SourceWorld == "" {
		return invalid(ReasonMissingSourceWorld)
	}
	if p.TargetWorld == "" {
		return invalid(ReasonMissingTargetWorld)
	}
	if p.Timestamp == 0 {
		return invalid(ReasonMissingTimestamp)
	}

	issued := time.Unix(0, int64(p.Timestamp*float64(time.Second)))
	age := now.Sub(issued)
	if age > limits.MaxAge {
		return invalid(ReasonPassportExpired)
	}
	if age < 0 {
		return invalid(ReasonFutureTimestamp)
	}

	if p.Inventory != "" {
		return ValidateInventory(p.Inventory, limits)
	}

	return Result{Valid: true}
}

// ValidateInventory checks the serialized inventory payload: it must parse
// as a list, fit within the slot cap, and every entry must carry a name and
// an integer quantity within [0, MaxStackSize].
func ValidateInventory(inventoryJSON string, limits Limits) Result {
	var items []domain.PassportItem
	if err := json.Unmarshal([]byte(inventoryJSON), &items); err != nil {
		// Distinguish "valid JSON, wrong shape" from unparseable input.
		var probe interface{}
		if jsonErr := json.Unmarshal([]byte(inventoryJSON), &probe); jsonErr == nil {
			if _, isList := probe.([]interface{}); !isList {
				return invalid(ReasonInventoryNotArray)
			}
		}
		return invalid(ReasonInvalidInventory)
	}

	if len(items) > limits.MaxInventorySlots {
		return invalidf(ReasonInventoryTooLarge, "%d items, max %d", len(items), limits.MaxInventorySlots)
	}

	for _, item := range items {
		if item.Name == "" {
			return invalid(ReasonItemMissingName)
		}
		if item.Quantity < 0 {
			return invalidf(ReasonInvalidQuantity, "item %s: quantity %v", item.Name, item.Quantity)
		}
		if item.Quantity > float64(limits.MaxStackSize) {
			return invalidf(ReasonQuantityTooLarge, "item %s: %v > %d", item.Name, item.Quantity, limits.MaxStackSize)
		}
		if item.Quantity != math.Trunc(item.Quantity) {
			return invalidf(ReasonQuantityNotInteger, "item %s: %v", item.Name, item.Quantity)
		}
	}

	return Result{Valid: true}
}

// ParseItems decodes a passport inventory payload that has already passed
// validation.
func ParseItems(inventoryJSON string) ([]domain.PassportItem, error) {
	var items []domain.PassportItem
	if err := json.Unmarshal([]byte(inventoryJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to parse passport inventory: %w", err)
	}
	return items, nil
}
