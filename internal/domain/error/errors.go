package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidInput        = 4000
	CodeInsufficientBalance = 4001
	CodeInvalidAmount       = 4002
	CodeInvalidAccountID    = 4003
	CodeUnauthorized        = 4030
	CodeInvalidSignature    = 4031
	CodeNotFound            = 4040
	CodeAccountNotFound     = 4041
	CodeSessionNotFound     = 4042
	CodeConflict            = 4090
	CodeConstraintViolation = 4220
	CodeQuotaExceeded       = 4290

	// 5xxx - Server errors
	CodeInternalServer      = 5000
	CodeUpstreamUnavailable = 5020
	CodeDatabaseConnection  = 5030
)

// Base error types
var (
	// ErrInvalidInput is returned when a request is malformed or misses a required field
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount is returned when an amount is zero, malformed, has the wrong sign
	// for the caller's role or more than two fraction digits
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidInput)

	// ErrInvalidAccountID is returned when the account ID is not a positive integer
	ErrInvalidAccountID = fmt.Errorf("%w: account ID must be positive", ErrInvalidInput)

	// ErrUnauthorized is returned when the actor's role or ownership does not allow the operation
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSignature is returned when a provider callback fails authentication
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrUnauthorized)

	// ErrQuotaExceeded is returned when a daily transfer cap would be exceeded
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrInsufficientBalance is returned when a debit would make the balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUpstreamUnavailable is returned on timeouts, non-OK statuses and malformed bodies from the games API
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrConflict is returned when a concurrent modification was detected; callers should retry
	ErrConflict = errors.New("concurrent modification, retry the operation")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)

	// ErrSessionNotFound is returned when the requested game session doesn't exist
	ErrSessionNotFound = fmt.Errorf("game session %w", ErrNotFound)

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors.
// More specific errors are checked before the sentinels they wrap.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidAccountID):
		return CodeInvalidAccountID
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrUpstreamUnavailable):
		return CodeUpstreamUnavailable
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps a domain error to the HTTP status used by the JSON API
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrDatabaseConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError is a field-level validation failure reported back to the initiating actor
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation_error",
		"field":      e.Field,
		"message":    e.Message,
		"error_code": ErrorCode(e.Err),
	}
}

// NewValidationError creates a field-level validation error wrapping err
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// QuotaExceededError provides detailed information about an exceeded daily cap
type QuotaExceededError struct {
	Cap       string
	ActorID   uint64
	TargetID  uint64
	Limit     string
	Used      string
	Requested string
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s exceeded for runner %d (target %d): used %s + requested %s > limit %s",
		e.Cap, e.ActorID, e.TargetID, e.Used, e.Requested, e.Limit)
}

// Is checks if the target error is an ErrQuotaExceeded
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// LogFields returns a map of fields for structured logging
func (e *QuotaExceededError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "quota_exceeded",
		"cap":        e.Cap,
		"actor_id":   e.ActorID,
		"target_id":  e.TargetID,
		"limit":      e.Limit,
		"used":       e.Used,
		"requested":  e.Requested,
		"error_code": CodeQuotaExceeded,
	}
}

// NewQuotaExceededError creates a new detailed quota error
func NewQuotaExceededError(capName string, actorID, targetID uint64, limit, used, requested string) error {
	return &QuotaExceededError{
		Cap:       capName,
		ActorID:   actorID,
		TargetID:  targetID,
		Limit:     limit,
		Used:      used,
		Requested: requested,
	}
}

// UpstreamError describes a failed call to the games API
type UpstreamError struct {
	Command    string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failed (http %d): %s", e.Command, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream %s failed: %s", e.Command, e.Message)
}

// Is checks if the target error is an ErrUpstreamUnavailable
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// Unwrap returns the underlying error
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *UpstreamError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":  "upstream_error",
		"command":     e.Command,
		"status_code": e.StatusCode,
		"message":     e.Message,
		"error_code":  CodeUpstreamUnavailable,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(command string, statusCode int, message string, err error) error {
	return &UpstreamError{
		Command:    command,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error signals a retryable concurrent modification
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsQuotaExceededError checks if the error is related to a daily cap
func IsQuotaExceededError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// LogFields extracts structured log fields from typed errors, falling back to the message
func LogFields(err error) map[string]any {
	var withFields interface{ LogFields() map[string]any }
	if errors.As(err, &withFields) {
		return withFields.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}
