package stock

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/pkg/logger"
)

// Checker validates requested quantities against the stock read model.
// It never changes stock; applying the movement is the caller's job.
type Checker struct {
	reader    Reader
	txManager tx.ReadOnlyManager
}

// NewChecker creates a stock checker. txManager may be nil, in which case
// batch checks read without a shared snapshot.
func NewChecker(reader Reader, txManager tx.ReadOnlyManager) *Checker {
	return &Checker{reader: reader, txManager: txManager}
}

// Evaluate fails with INSUFFICIENT_STOCK iff requested exceeds the level.
func Evaluate(level Level, requested int64) error {
	if requested > level.CurrentStock {
		return apperror.NewInsufficientStock(level.ProductID.String(), requested, level.CurrentStock)
	}
	return nil
}

// Check looks up the level for productID in branchID and evaluates requested against it.
func (c *Checker) Check(ctx context.Context, productID, branchID id.ID, requested int64) error {
	level, err := c.reader.CurrentStock(ctx, productID, branchID)
	if err != nil {
		return fmt.Errorf("get current stock: %w", err)
	}
	// Readers may leave identifiers zero on a missing row.
	level.ProductID, level.BranchID = productID, branchID

	if err := Evaluate(level, requested); err != nil {
		logger.Info(ctx, "insufficient stock",
			"product_id", productID,
			"branch_id", branchID,
			"requested", requested,
			"available", level.CurrentStock,
		)
		return err
	}
	return nil
}

// CheckDelta validates an edited line: only the increase over existingQty
// must be covered, since existingQty is already issued from stock.
func (c *Checker) CheckDelta(ctx context.Context, productID, branchID id.ID, newQty, existingQty int64) error {
	diff := newQty - existingQty
	if diff <= 0 {
		return nil
	}
	return c.Check(ctx, productID, branchID, diff)
}

// CheckItems validates every line against branchID and returns all shortages combined.
// Lines without a product or with a non-positive quantity are skipped.
// Lines for the same product are summed before checking.
func (c *Checker) CheckItems(ctx context.Context, branchID id.ID, items []Item) error {
	totals, order := aggregate(items)
	if len(order) == 0 {
		return nil
	}

	var violations error
	err := tx.RunReadOnly(ctx, c.txManager, func(ctx context.Context) error {
		for _, productID := range order {
			err := c.Check(ctx, productID, branchID, totals[productID])
			if err == nil {
				continue
			}
			if !apperror.IsAppError(err) {
				return err
			}
			violations = multierr.Append(violations, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return violations
}

// CheckTransfer validates a branch-to-branch transfer: the branches must differ
// and the source branch must hold every line.
func (c *Checker) CheckTransfer(ctx context.Context, sourceBranchID, targetBranchID id.ID, items []Item) error {
	if sourceBranchID == targetBranchID {
		return apperror.NewBusinessRule(
			apperror.CodeSameBranchTransfer,
			"لا يمكن التحويل إلى نفس الفرع",
		).WithField("target_branch_id").WithDetail("branch_id", sourceBranchID.String())
	}
	return c.CheckItems(ctx, sourceBranchID, items)
}

func aggregate(items []Item) (map[id.ID]int64, []id.ID) {
	totals := make(map[id.ID]int64, len(items))
	var order []id.ID
	for _, it := range items {
		if it.ProductID == nil || it.Quantity <= 0 {
			continue
		}
		if _, seen := totals[*it.ProductID]; !seen {
			order = append(order, *it.ProductID)
		}
		totals[*it.ProductID] += it.Quantity
	}
	return totals, order
}
