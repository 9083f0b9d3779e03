// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrBidTooLow      = errors.New("bid amount too low")
	ErrListingClosed  = errors.New("listing is closed")
	ErrForbidden      = errors.New("action not permitted for this user")
	ErrUnauthorized   = errors.New("authentication required")
	ErrDuplicateEntry = errors.New("duplicate entry") // For cases like creating a user with existing username
)

// IsError reports whether err matches target anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
