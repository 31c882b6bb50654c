package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	// UserID carries the pending-verification reference when the caller must
	// complete the one-time-code step before authenticating.
	UserID uint `json:"user_id,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	// UserID is set on VERIFICATION_REQUIRED errors so the caller can be
	// routed to the verification step for that account.
	UserID uint
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationErrors accumulates per-field violations so registration can
// report every problem at once instead of failing on the first.
type ValidationErrors struct {
	Fields map[string]string
	order  []string
}

// Add records a violation for the named field. The first message per field wins.
func (e *ValidationErrors) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.order = append(e.order, field)
		e.Fields[field] = message
	}
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationErrors) Error() string {
	if len(e.order) == 0 {
		return "validation failed"
	}
	first := e.order[0]
	if len(e.order) == 1 {
		return e.Fields[first]
	}
	return fmt.Sprintf("%s (and %d more)", e.Fields[first], len(e.order)-1)
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewForbiddenError is used for operations the caller may never perform,
// such as following oneself or editing someone else's post.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

// NewVerificationRequiredError routes an unverified account back to the
// one-time-code step; UserID is the pending-verification reference.
func NewVerificationRequiredError(userID uint) *AppError {
	return &AppError{
		Code:    "VERIFICATION_REQUIRED",
		Message: "Verify your email first",
		UserID:  userID,
	}
}

// NewExternalServiceError wraps a failure from the payment collaborator.
// Unlike code delivery, these propagate to the caller.
func NewExternalServiceError(service string, err error) *AppError {
	return &AppError{
		Code:    "EXTERNAL_SERVICE",
		Message: fmt.Sprintf("%s request failed", service),
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	switch e := err.(type) {
	case *AppError:
		response = ErrorResponse{
			Error:  e.Message,
			Code:   e.Code,
			UserID: e.UserID,
		}
		if e.Err != nil {
			response.Details = e.Err.Error()
		}
	case *ValidationErrors:
		response = ErrorResponse{
			Error:  e.Error(),
			Code:   "VALIDATION_ERROR",
			Fields: e.Fields,
		}
	default:
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
