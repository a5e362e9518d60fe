package read_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/id"
	"inventra/internal/domain/registers/stock"
	"inventra/internal/infrastructure/storage/postgres"
)

var _ stock.Reader = (*StockRepo)(nil)

var stockColumns = postgres.ExtractDBColumns[stock.Level]()

// StockRepo reads per-branch stock levels.
type StockRepo struct {
	baseRepo
}

// NewStockRepo creates a stock read repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{baseRepo: newBaseRepo(txm)}
}

func (r *StockRepo) currentStockQuery(productID, branchID id.ID) squirrel.SelectBuilder {
	return r.builder.Select(stockColumns...).
		From(stockTable).
		Where(squirrel.Eq{
			"product_id": productID,
			"branch_id":  branchID,
		}).Limit(1)
}

// CurrentStock returns the stock level; a missing row is a zero level.
func (r *StockRepo) CurrentStock(ctx context.Context, productID, branchID id.ID) (stock.Level, error) {
	sql, args, err := r.currentStockQuery(productID, branchID).ToSql()
	if err != nil {
		return stock.Level{}, fmt.Errorf("build query: %w", err)
	}

	var level stock.Level
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Level{ProductID: productID, BranchID: branchID}, nil
		}
		return stock.Level{}, fmt.Errorf("get current stock: %w", err)
	}
	return level, nil
}
