// Package pricing validates discounts applied to voucher totals.
package pricing

import (
	"fmt"
	"strings"

	"inventra/internal/core/apperror"
	"inventra/internal/core/types"
)

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountNone       DiscountType = "NONE"
	DiscountFixed      DiscountType = "FIXED"
	DiscountPercentage DiscountType = "PERCENTAGE"
)

var hundred = types.NewMoneyFromInt(100)

// ParseDiscountType normalizes t case-insensitively. Empty maps to DiscountNone.
func ParseDiscountType(t string) (DiscountType, error) {
	switch dt := DiscountType(strings.ToUpper(strings.TrimSpace(t))); dt {
	case "", DiscountNone:
		return DiscountNone, nil
	case DiscountFixed, DiscountPercentage:
		return dt, nil
	default:
		return "", apperror.NewValidation(fmt.Sprintf("نوع الخصم غير صالح: %s", t)).WithField("discount_type")
	}
}

// CheckDiscount validates value for discountType against total.
// A fixed discount may not exceed total; a percentage must lie in [0, 100].
func CheckDiscount(discountType string, value, total types.Money) error {
	dt, err := ParseDiscountType(discountType)
	if err != nil {
		return err
	}

	switch dt {
	case DiscountFixed:
		if value.GreaterThan(total) {
			return apperror.NewBusinessRule(
				apperror.CodeInvalidDiscount,
				fmt.Sprintf("الخصم الثابت (%s) لا يمكن أن يتجاوز الإجمالي (%s)",
					types.FormatMoney(value), types.FormatMoney(total)),
			).WithField("discount_value").
				WithDetail("discount_type", string(dt)).
				WithDetail("discount_value", types.FormatMoney(value)).
				WithDetail("total", types.FormatMoney(total))
		}
	case DiscountPercentage:
		if value.IsNegative() || value.GreaterThan(hundred) {
			return apperror.NewBusinessRule(
				apperror.CodeInvalidDiscount,
				"نسبة الخصم يجب أن تكون بين 0 و 100",
			).WithField("discount_value").
				WithDetail("discount_type", string(dt)).
				WithDetail("discount_value", value.String())
		}
	}
	return nil
}
