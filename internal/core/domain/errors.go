package domain

import "errors"

// Sentinel errors for store and provider operations.
var (
	// ErrProfileNotFound indicates the requested profile does not exist.
	// HTTP Status: 404 Not Found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrConnectionNotFound indicates the requested connection does not exist.
	// HTTP Status: 404 Not Found
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrProvider indicates a non-success response from an external service
	// (transcription, text generation).
	// HTTP Status: 500 Internal Server Error
	ErrProvider = errors.New("provider request failed")

	// ErrTokenExchange indicates the OAuth provider rejected a code exchange.
	// HTTP Status: 400 Bad Request
	ErrTokenExchange = errors.New("token exchange rejected")
)
