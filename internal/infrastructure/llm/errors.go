package llm

import "errors"

var (
	// ErrMisconfigured is returned when a client lacks credentials or a model.
	ErrMisconfigured = errors.New("llm client misconfigured")
	// ErrMalformedResponse is returned when the result does not match the expected schema.
	ErrMalformedResponse = errors.New("llm response malformed")
)
