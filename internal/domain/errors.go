package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgUserNotFound = "user not found"

	ErrMsgItemNotFound         = "item not found"
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgStackLimitExceeded   = "stack limit exceeded"
	ErrMsgInventoryFull        = "inventory is full"

	ErrMsgSessionNotFound = "session not found"

	ErrMsgAlreadyLinked = "account already linked"

	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors. Wrap with fmt.Errorf("%w: ...", domain.ErrXxx) for
// additional context so callers can still errors.Is() against them.
var (
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	ErrItemNotFound         = errors.New(ErrMsgItemNotFound)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)
	ErrStackLimitExceeded   = errors.New(ErrMsgStackLimitExceeded)
	ErrInventoryFull        = errors.New(ErrMsgInventoryFull)

	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)

	ErrAlreadyLinked = errors.New(ErrMsgAlreadyLinked)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
