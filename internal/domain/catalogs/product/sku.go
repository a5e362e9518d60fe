// Package product holds product catalog rules.
package product

import (
	"regexp"
	"strings"

	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
)

// SKUMinLength is the minimum number of letters and digits in a SKU.
const SKUMinLength = 2

// SKU format violation reasons.
const (
	ReasonPattern            = "pattern"
	ReasonConsecutiveHyphens = "consecutive_hyphens"
	ReasonMinLength          = "min_length"
)

var skuPattern = regexp.MustCompile(`(?i)^[A-Z0-9]+([A-Z0-9-]*[A-Z0-9]+)?$`)

// ValidateSKU runs every SKU rule and returns all failures combined.
// The rules are the overall pattern (case-insensitive), no consecutive
// hyphens, and at least SKUMinLength letters or digits.
func ValidateSKU(sku string) error {
	var errs error

	if !skuPattern.MatchString(sku) {
		errs = multierr.Append(errs, apperror.NewInvalidFormat("sku", ReasonPattern,
			"رمز المنتج يجب أن يحتوي على أحرف وأرقام وشرطات فقط، ولا يبدأ أو ينتهي بشرطة"))
	}

	if strings.Contains(sku, "--") {
		errs = multierr.Append(errs, apperror.NewInvalidFormat("sku", ReasonConsecutiveHyphens,
			"رمز المنتج لا يمكن أن يحتوي على شرطات متتالية"))
	}

	if n := alphanumericCount(sku); n < SKUMinLength {
		errs = multierr.Append(errs, apperror.NewInvalidFormat("sku", ReasonMinLength,
			"رمز المنتج يجب أن يتكون من حرفين على الأقل").
			WithDetail("min_length", SKUMinLength).
			WithDetail("length", n))
	}

	return errs
}

func alphanumericCount(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			n++
		}
	}
	return n
}
