package entity

import "errors"

// Error kinds shared by every layer. Wrap them with fmt.Errorf("%w: ...") and
// test with errors.Is; the HTTP layer maps each kind to a status code.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrConflict            = errors.New("conflict")
)
