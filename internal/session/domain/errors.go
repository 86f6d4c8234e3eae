package domain

import "errors"

var (
	ErrNotFound          = errors.New("session_not_found")
	ErrInvalidTransition = errors.New("invalid_session_transition")
	ErrPaymentMismatch   = errors.New("payment_mismatch")
	ErrDeliveryFailed    = errors.New("delivery_failed")
)
