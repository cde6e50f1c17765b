package model

import (
	"fmt"
	"strings"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeConflict            = "CONFLICT"
	ErrCodePromotionIneligible = "PROMOTION_INELIGIBLE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// ValidationError reports malformed or out-of-range input, field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError reports an absent referenced resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error for the given resource.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UnauthorizedError reports that the acting identity does not own the resource.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// ConflictError reports a unique-constraint collision or a lost concurrency race.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// PromotionIneligibleError is a terminal, user-facing business rule failure,
// distinct from input validation.
type PromotionIneligibleError struct {
	Reason string
}

func (e *PromotionIneligibleError) Error() string {
	return "promotion ineligible: " + e.Reason
}

// NewPromotionIneligibleError creates a promotion ineligibility error.
func NewPromotionIneligibleError(reason string) *PromotionIneligibleError {
	return &PromotionIneligibleError{Reason: reason}
}
