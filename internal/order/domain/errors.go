package domain

import "errors"

var (
	ErrNotFound          = errors.New("order_not_found")
	ErrInvalidPackage    = errors.New("invalid_package")
	ErrInvalidEvent      = errors.New("invalid_payment_event")
	ErrInvalidTransition = errors.New("invalid_order_transition")
	ErrOwnershipMismatch = errors.New("ownership_mismatch")
)
