package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"go.uber.org/zap"
)

var validate = validator.New()

// ThemeHintHeader carries the browser's preferred color scheme
const ThemeHintHeader = "Sec-CH-Prefers-Color-Scheme"

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether the caller may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	notification := domain.Failure("Please fill out all fields correctly.")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:         domain.ErrorTypeValidation,
		Title:        "Validation Error",
		Status:       http.StatusBadRequest,
		Detail:       "One or more fields failed validation",
		Errors:       errors,
		Notification: &notification,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("Must match the format %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	// Convert first character to lowercase for camelCase
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondError maps a service error onto its status code and problem type.
// Every body carries the notification text the storefront shows the visitor.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		ve *domain.ValidationError
		de *domain.DuplicateError
		ce *domain.CapacityError
		se *domain.StorageError
	)

	status := http.StatusInternalServerError
	errType := domain.ErrorTypeInternal
	detail := domain.GenericFailureMessage

	switch {
	case errors.As(err, &ve):
		status, errType, detail = http.StatusBadRequest, domain.ErrorTypeValidation, ve.Message
	case errors.As(err, &de):
		status, errType, detail = http.StatusConflict, domain.ErrorTypeConflict, de.Message
	case errors.As(err, &ce):
		status, errType, detail = http.StatusConflict, domain.ErrorTypeCapacityExceeded, ce.Message
	case errors.Is(err, domain.ErrPropertyNotFound):
		status, errType, detail = http.StatusNotFound, domain.ErrorTypeNotFound, domain.UserMessage(err)
	case errors.Is(err, domain.ErrNotSignedIn):
		status, errType, detail = http.StatusNotFound, domain.ErrorTypeNotFound, "You are not signed in."
	case errors.Is(err, service.ErrNoSession):
		status, errType, detail = http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "A visitor session is required."
	case errors.As(err, &se):
		logger.Error("storage failure", zap.Error(err))
		status, errType = http.StatusServiceUnavailable, domain.ErrorTypeStorage
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// the client left; the mutation itself keeps running
		logger.Info("request ended before the operation finished", zap.Error(err))
		status, errType, detail = http.StatusServiceUnavailable, domain.ErrorTypeInternal, "The request was cancelled."
	default:
		logger.Error("unexpected error", zap.Error(err))
	}

	notification := domain.Failure(detail)
	respondJSON(w, status, domain.APIError{
		Type:         errType,
		Title:        http.StatusText(status),
		Status:       status,
		Detail:       detail,
		Notification: &notification,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusServiceUnavailable:
		return domain.ErrorTypeStorage
	default:
		return domain.ErrorTypeInternal
	}
}

// propertyID reads the {id} URL parameter
func propertyID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// themeHint reads the color scheme client hint. Browsers send it quoted.
func themeHint(r *http.Request) domain.Theme {
	hint := domain.Theme(strings.Trim(strings.TrimSpace(r.Header.Get(ThemeHintHeader)), `"`))
	if hint.IsValid() {
		return hint
	}
	return ""
}
