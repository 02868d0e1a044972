package primary

import "errors"

// Error kinds returned by ShipmentService. Operations wrap one of these,
// so callers match with errors.Is and present their own message.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPersistence       = errors.New("persistence failure")
)
