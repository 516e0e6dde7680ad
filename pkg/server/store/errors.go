package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a user lookup by ID matches nothing.
	ErrUserNotFound = errors.New("user not found")

	// ErrVaultNotFound is returned when a vault lookup matches nothing.
	ErrVaultNotFound = errors.New("vault not found")

	// ErrItemNotFound is returned when an item lookup matches nothing.
	ErrItemNotFound = errors.New("item not found")

	// ErrRequestNotFound is returned when a request lookup matches nothing.
	ErrRequestNotFound = errors.New("request not found")

	// ErrInvalidState is returned when a lifecycle transition is attempted
	// from a state that does not permit it, e.g. approving a request twice.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrNotCheckedOut is returned on checkin of an item nobody holds.
	ErrNotCheckedOut = errors.New("item is not checked out")
)

// CheckoutConflictError is returned when a checkout loses the race to another
// holder. It carries the current holder so the response can name them.
type CheckoutConflictError struct {
	HolderID string
}

func (e *CheckoutConflictError) Error() string {
	return fmt.Sprintf("item already checked out by %s", e.HolderID)
}
