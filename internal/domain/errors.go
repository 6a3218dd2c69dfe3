package domain

import (
	"errors"
	"fmt"
)

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type         string            `json:"type"`
	Title        string            `json:"title"`
	Status       int               `json:"status"`
	Detail       string            `json:"detail,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"lt":       "Must be less than maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"datetime": "Must match the expected date or time format",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation       = "validation_error"
	ErrorTypeNotFound         = "not_found"
	ErrorTypeBadRequest       = "bad_request"
	ErrorTypeConflict         = "conflict"
	ErrorTypeCapacityExceeded = "capacity_exceeded"
	ErrorTypeUnauthorized     = "unauthorized"
	ErrorTypeStorage          = "storage_error"
	ErrorTypeInternal         = "internal_error"
)

// GenericFailureMessage is shown to visitors when persistence fails
const GenericFailureMessage = "Something went wrong. Please try again."

var (
	// ErrPropertyNotFound is returned when an id is not in the catalog
	ErrPropertyNotFound = errors.New("property not found")
	// ErrNotSignedIn is returned by Me when no user is stored
	ErrNotSignedIn = errors.New("not signed in")
)

// ValidationError is a missing or invalid input; nothing was mutated
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with a user-facing message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// DuplicateError means the item is already in the cart or comparison set
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

// NewDuplicateError creates a DuplicateError with a user-facing message
func NewDuplicateError(message string) *DuplicateError {
	return &DuplicateError{Message: message}
}

// CapacityError means the comparison set is full
type CapacityError struct {
	Message  string
	Capacity int
}

func (e *CapacityError) Error() string { return e.Message }

// NewCapacityError creates a CapacityError with a user-facing message
func NewCapacityError(message string, capacity int) *CapacityError {
	return &CapacityError{Message: message, Capacity: capacity}
}

// StorageError wraps a failed read or write of one persisted key
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

// UserMessage returns the notification text for err, falling back to the generic message
func UserMessage(err error) string {
	var ve *ValidationError
	var de *DuplicateError
	var ce *CapacityError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &de):
		return de.Message
	case errors.As(err, &ce):
		return ce.Message
	case errors.Is(err, ErrPropertyNotFound):
		return "Property not found."
	default:
		return GenericFailureMessage
	}
}
