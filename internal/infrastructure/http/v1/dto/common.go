// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
)

// DateLayout is the wire format of dates.
const DateLayout = time.DateOnly

// ValidationResponse is returned when every check passed.
// Warnings are advisories that must not block the caller.
type ValidationResponse struct {
	Valid    bool               `json:"valid"`
	Warnings []apperror.Warning `json:"warnings"`
}

// NewValidationResponse builds a passing response; nil warnings render as [].
func NewValidationResponse(warnings ...apperror.Warning) ValidationResponse {
	if warnings == nil {
		warnings = []apperror.Warning{}
	}
	return ValidationResponse{Valid: true, Warnings: warnings}
}

// ParseDate parses an optional date; empty yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// ParseMoney parses a decimal amount sent as a string.
func ParseMoney(s string) (types.Money, error) {
	return types.NewMoneyFromString(s)
}

// ParseOptionalID parses an optional UUID.
func ParseOptionalID(s string) (*id.ID, error) {
	return id.ParseOptional(s)
}
