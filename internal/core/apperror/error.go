// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every rule violation is an AppError so callers get a machine code, a display message
// and the numeric context needed to re-render the message in another locale.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/multierr"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (422)
	CodeBusinessRule       = "BUSINESS_RULE_VIOLATION"
	CodeUnknownStatus      = "UNKNOWN_STATUS"
	CodeTerminalState      = "TERMINAL_STATE"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeSameBranchTransfer = "SAME_BRANCH_TRANSFER"
	CodeCreditLimit        = "CREDIT_LIMIT_EXCEEDED"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeInvalidDiscount    = "INVALID_DISCOUNT"
	CodeInvalidDate        = "INVALID_DATE"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict                 = "CONFLICT"
	CodeDuplicateCheque          = "DUPLICATE_CHEQUE"
	CodeVoucherUsedInOtherBranch = "VOUCHER_USED_IN_OTHER_BRANCH"
	CodeVoucherUsedInSameBranch  = "VOUCHER_USED_IN_SAME_BRANCH"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description (Arabic, ready to display)
	Message string `json:"message"`

	// Details contains additional context (field, quantities, amounts, allowed statuses)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithField is shorthand for WithDetail("field", name).
func (e *AppError) WithField(name string) *AppError {
	return e.WithDetail("field", name)
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientStock creates a stock shortage error.
func NewInsufficientStock(productID string, requested, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("الكمية المطلوبة (%d) أكبر من المخزون المتاح (%d)", requested, available),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
			"shortage":   requested - available,
		},
	}
}

// NewInvalidFormat creates a format violation; reason is a stable machine key.
func NewInvalidFormat(field, reason, message string) *AppError {
	return &AppError{
		Code:       CodeInvalidFormat,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"field": field, "reason": reason},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409) with the given code.
func NewConflict(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == CodeNotFound
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err, or any violation combined into it, carries code.
func HasCode(err error, code string) bool {
	for _, e := range multierr.Errors(err) {
		if appErr, ok := AsAppError(e); ok && appErr.Code == code {
			return true
		}
	}
	return false
}

// Flatten splits a combined error into its violations.
// Errors that are not AppError are wrapped with NewInternal.
func Flatten(err error) []*AppError {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	out := make([]*AppError, 0, len(errs))
	for _, e := range errs {
		if appErr, ok := AsAppError(e); ok {
			out = append(out, appErr)
			continue
		}
		out = append(out, NewInternal(e))
	}
	return out
}

// Codes returns the codes of all violations in err, in order.
func Codes(err error) []string {
	violations := Flatten(err)
	codes := make([]string, len(violations))
	for i, v := range violations {
		codes[i] = v.Code
	}
	return codes
}

// Messages joins violation messages for single-line display (CLI, logs).
func Messages(err error) string {
	violations := Flatten(err)
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}
