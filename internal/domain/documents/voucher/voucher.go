// Package voucher validates return voucher numbers: the RV-NNNNNN format and
// uniqueness across branches.
package voucher

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/pkg/logger"
)

var numberPattern = regexp.MustCompile(`^RV-\d{6}$`)

// Reader looks up return vouchers by number.
type Reader interface {
	// VoucherBranches returns the branch of every return voucher numbered
	// number, ignoring the voucher with excludeID when it is not nil.
	VoucherBranches(ctx context.Context, number string, excludeID *id.ID) ([]id.ID, error)
}

// ValidateNumberFormat fails with INVALID_FORMAT unless number is RV- followed by exactly six digits.
func ValidateNumberFormat(number string) error {
	if numberPattern.MatchString(number) {
		return nil
	}
	return apperror.NewInvalidFormat(
		"voucher_number",
		"pattern",
		"رقم إذن المرتجع يجب أن يكون بالصيغة RV-XXXXXX (6 أرقام)",
	).WithDetail("value", number).WithDetail("pattern", "RV-NNNNNN")
}

// Checker validates return voucher numbers against existing vouchers.
type Checker struct {
	reader Reader
}

// NewChecker creates a return voucher checker.
func NewChecker(reader Reader) *Checker {
	return &Checker{reader: reader}
}

// CheckUnique fails when number is already used. A match in branchID is
// VOUCHER_USED_IN_SAME_BRANCH; a match only in other branches is
// VOUCHER_USED_IN_OTHER_BRANCH.
func (c *Checker) CheckUnique(ctx context.Context, number string, branchID id.ID, excludeID *id.ID) error {
	branches, err := c.reader.VoucherBranches(ctx, number, excludeID)
	if err != nil {
		return fmt.Errorf("lookup return voucher: %w", err)
	}
	if len(branches) == 0 {
		return nil
	}

	for _, b := range branches {
		if b == branchID {
			return apperror.NewConflict(
				apperror.CodeVoucherUsedInSameBranch,
				fmt.Sprintf("رقم إذن المرتجع %s مستخدم بالفعل في هذا الفرع", number),
			).WithField("voucher_number").
				WithDetail("voucher_number", number).
				WithDetail("branch_id", branchID.String())
		}
	}

	logger.Info(ctx, "return voucher number used in another branch",
		"voucher_number", number,
		"branch_id", branchID,
		"used_in", branches[0],
	)
	return apperror.NewConflict(
		apperror.CodeVoucherUsedInOtherBranch,
		fmt.Sprintf("رقم إذن المرتجع %s مستخدم بالفعل في فرع آخر", number),
	).WithField("voucher_number").
		WithDetail("voucher_number", number).
		WithDetail("branch_id", branchID.String()).
		WithDetail("used_in_branch_id", branches[0].String())
}

// Check runs the format and uniqueness checks independently and returns
// every violation combined. Infrastructure errors are returned alone.
func (c *Checker) Check(ctx context.Context, number string, branchID id.ID, excludeID *id.ID) error {
	number = strings.TrimSpace(number)
	formatErr := ValidateNumberFormat(number)

	uniqueErr := c.CheckUnique(ctx, number, branchID, excludeID)
	if uniqueErr != nil && !apperror.IsAppError(uniqueErr) {
		return uniqueErr
	}
	return multierr.Combine(formatErr, uniqueErr)
}
