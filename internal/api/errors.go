package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/service"
	"github.com/phrazzld/routine-api/internal/service/identity"
	"github.com/phrazzld/routine-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrExpiredToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrSeriesNotFound),
		errors.Is(err, service.ErrOccurrenceNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Capability gaps: the deployed schema cannot hold the requested field
	case store.IsCapabilityError(err):
		return http.StatusConflict

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, identity.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, identity.ErrInvalidToken):
		return "Invalid token"

	// Not found errors
	case errors.Is(err, service.ErrSeriesNotFound),
		errors.Is(err, store.ErrSeriesNotFound):
		return "Series not found"
	case errors.Is(err, service.ErrOccurrenceNotFound),
		errors.Is(err, store.ErrOccurrenceNotFound):
		return "Occurrence not found"
	case errors.Is(err, store.ErrEmployeeNotFound):
		return "Employee not found"
	case store.IsNotFoundError(err):
		return "Not found"

	// Capability gaps
	case errors.Is(err, store.ErrOccurrenceTitleUnsupported):
		return "Per-occurrence titles are not supported by this deployment"
	case errors.Is(err, store.ErrOccurrenceAssigneeUnsupported):
		return "Per-occurrence assignees are not supported by this deployment"

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	// Validation failures carry caller-facing messages by construction
	case domain.IsValidationError(err):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from struct validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateSeriesRequest.Title' Error:Field
		// validation for 'Title' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
