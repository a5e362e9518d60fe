// Package stock checks requested quantities against per-branch stock levels.
package stock

import (
	"context"

	"inventra/internal/core/id"
)

// Level is the current stock of one product in one branch.
type Level struct {
	ProductID    id.ID `db:"product_id"`
	BranchID     id.ID `db:"branch_id"`
	CurrentStock int64 `db:"current_stock"`
}

// Reader is the stock read model.
type Reader interface {
	// CurrentStock returns the level for productID in branchID.
	// A missing record yields a zero Level and no error.
	CurrentStock(ctx context.Context, productID, branchID id.ID) (Level, error)
}

// Item is one requested line of an issue voucher or transfer.
type Item struct {
	ProductID *id.ID
	Quantity  int64
}
