package services

import "errors"

// Error taxonomy surfaced to the HTTP boundary. Handlers map these to
// status codes; raw store/provider errors never reach the client.
var (
	ErrInvalid       = errors.New("invalid request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrConfiguration = errors.New("configuration missing")
)
