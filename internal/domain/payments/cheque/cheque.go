// Package cheque validates cheque payments: number uniqueness per bank and date ordering.
package cheque

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/pkg/logger"
)

// DefaultPostDatedMonths is how far ahead a cheque may be dated before it draws a warning.
const DefaultPostDatedMonths = 6

// Reader looks up existing cheques.
type Reader interface {
	// ChequeExists reports whether a cheque with number and bank exists,
	// ignoring the cheque with excludeID when it is not nil.
	ChequeExists(ctx context.Context, number, bank string, excludeID *id.ID) (bool, error)
}

// Checker validates cheque numbers against the cheque register.
type Checker struct {
	reader Reader
}

// NewChecker creates a cheque checker.
func NewChecker(reader Reader) *Checker {
	return &Checker{reader: reader}
}

// CheckUnique fails with DUPLICATE_CHEQUE when another cheque with the same
// number and bank exists. An empty number has nothing to check; a number
// without a bank is a validation error.
func (c *Checker) CheckUnique(ctx context.Context, number, bank string, excludeID *id.ID) error {
	number = strings.TrimSpace(number)
	bank = strings.TrimSpace(bank)
	if number == "" {
		return nil
	}
	if bank == "" {
		return apperror.NewValidation("اسم البنك مطلوب عند استخدام الشيكات").WithField("bank_name")
	}

	exists, err := c.reader.ChequeExists(ctx, number, bank, excludeID)
	if err != nil {
		return fmt.Errorf("lookup cheque: %w", err)
	}
	if !exists {
		return nil
	}

	logger.Info(ctx, "duplicate cheque number", "cheque_number", number, "bank", bank)
	return apperror.NewConflict(
		apperror.CodeDuplicateCheque,
		fmt.Sprintf("رقم الشيك %s مسجل مسبقاً لدى بنك %s", number, bank),
	).WithField("cheque_number").
		WithDetail("cheque_number", number).
		WithDetail("bank_name", bank)
}

// CheckDates validates that the cheque is not dated before the payment and
// that it does not fall due before its own date. A zero time skips the rule
// that needs it. Both violations are reported together.
func CheckDates(paymentDate, chequeDate, dueDate time.Time) error {
	var errs error
	if !paymentDate.IsZero() && !chequeDate.IsZero() && day(chequeDate).Before(day(paymentDate)) {
		errs = multierr.Append(errs, apperror.NewBusinessRule(
			apperror.CodeInvalidDate,
			"تاريخ الشيك لا يمكن أن يكون قبل تاريخ الدفع",
		).WithField("cheque_date").
			WithDetail("cheque_date", chequeDate.Format(time.DateOnly)).
			WithDetail("payment_date", paymentDate.Format(time.DateOnly)))
	}
	if !chequeDate.IsZero() && !dueDate.IsZero() && day(dueDate).Before(day(chequeDate)) {
		errs = multierr.Append(errs, apperror.NewBusinessRule(
			apperror.CodeInvalidDate,
			"تاريخ استحقاق الشيك لا يمكن أن يكون قبل تاريخ الشيك",
		).WithField("cheque_due_date").
			WithDetail("cheque_due_date", dueDate.Format(time.DateOnly)).
			WithDetail("cheque_date", chequeDate.Format(time.DateOnly)))
	}
	return errs
}

// PostDatedWarning returns an advisory when chequeDate is more than months
// after now. months <= 0 uses DefaultPostDatedMonths.
func PostDatedWarning(chequeDate, now time.Time, months int) *apperror.Warning {
	if chequeDate.IsZero() {
		return nil
	}
	if months <= 0 {
		months = DefaultPostDatedMonths
	}
	if !chequeDate.After(now.AddDate(0, months, 0)) {
		return nil
	}
	w := apperror.NewWarning(
		apperror.WarnPostDatedCheque,
		"cheque_date",
		fmt.Sprintf("تحذير: الشيك مؤجل لأكثر من %d أشهر", months),
	).WithDetail("cheque_date", chequeDate.Format(time.DateOnly)).
		WithDetail("months", months)
	return &w
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
