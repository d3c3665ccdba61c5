package booking

import "errors"

var (
	// ErrNotFound reports that no record exists for the user. For
	// administrator approval it doubles as the benign "not found or
	// already processed" outcome.
	ErrNotFound = errors.New("booking: not found")

	// ErrUnknownSelection reports a direction, tour type or date key
	// that is not part of the published catalog. The record is left
	// untouched.
	ErrUnknownSelection = errors.New("booking: unknown selection")

	// ErrInvalidEvent reports an event that is not legal in the user's
	// current state. The record is left untouched.
	ErrInvalidEvent = errors.New("booking: event not valid in current state")

	// ErrBadReceipt reports a receipt submission without a usable
	// attachment.
	ErrBadReceipt = errors.New("booking: receipt attachment missing or unsupported")
)
