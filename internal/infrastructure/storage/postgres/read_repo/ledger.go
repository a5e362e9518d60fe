package read_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain/ledger"
	"inventra/internal/infrastructure/storage/postgres"
)

var _ ledger.LedgerReader = (*LedgerRepo)(nil)

// LedgerRepo sums customer ledger entries.
type LedgerRepo struct {
	baseRepo
}

// NewLedgerRepo creates a ledger read repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{baseRepo: newBaseRepo(txm)}
}

func (r *LedgerRepo) sumByTypeQuery(customerID id.ID, entryType ledger.EntryType) squirrel.SelectBuilder {
	return r.builder.Select("COALESCE(SUM(amount), 0)::text").
		From(ledgerTable).
		Where(squirrel.Eq{
			"customer_id": customerID,
			"type":        string(entryType),
		})
}

// SumByType returns the total amount of entryType entries for the customer.
func (r *LedgerRepo) SumByType(ctx context.Context, customerID id.ID, entryType ledger.EntryType) (types.Money, error) {
	sql, args, err := r.sumByTypeQuery(customerID, entryType).ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var sum *string
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &sum, sql, args...); err != nil {
		return types.Zero(), fmt.Errorf("sum %s entries: %w", entryType, err)
	}
	return parseMoney(sum)
}
