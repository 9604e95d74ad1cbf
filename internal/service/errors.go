// Package service provides application-level services for registering,
// listing, updating, and completing routine series and their occurrences.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrSeriesNotFound indicates that the series does not exist or is
	// already closed. API layer should map this to HTTP 404 Not Found.
	ErrSeriesNotFound = errors.New("series not found")

	// ErrOccurrenceNotFound indicates that the occurrence does not exist or
	// is already completed. API layer should map this to HTTP 404 Not Found.
	ErrOccurrenceNotFound = errors.New("occurrence not found")
)
