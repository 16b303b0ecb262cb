package models

import "errors"

// Ledger error taxonomy. Every booking operation fails with exactly one of
// these (possibly wrapped with context) and leaves all state untouched.
var (
	ErrUnauthorized   = errors.New("caller role does not permit this operation")
	ErrInvalidState   = errors.New("operation not legal from current booking state")
	ErrInvalidRange   = errors.New("start date must be before end date")
	ErrInvalidPrice   = errors.New("price must be greater than zero")
	ErrInvalidPayment = errors.New("payment amount does not match confirmed price")
	ErrWindowClosed   = errors.New("cancellation window has closed")
	ErrNotFound       = errors.New("property not found")
)
