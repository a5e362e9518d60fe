package read_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/id"
	"inventra/internal/domain/payments/cheque"
	"inventra/internal/infrastructure/storage/postgres"
)

var _ cheque.Reader = (*ChequeRepo)(nil)

// ChequeRepo looks up cheques by number and bank.
type ChequeRepo struct {
	baseRepo
}

// NewChequeRepo creates a cheque read repository.
func NewChequeRepo(txm *postgres.TxManager) *ChequeRepo {
	return &ChequeRepo{baseRepo: newBaseRepo(txm)}
}

func (r *ChequeRepo) existsQuery(number, bank string, excludeID *id.ID) squirrel.SelectBuilder {
	inner := r.builder.Select("1").
		From(chequesTable).
		Where(squirrel.Eq{
			"cheque_number": number,
			"bank_name":     bank,
		})
	if excludeID != nil {
		inner = inner.Where(squirrel.NotEq{"id": *excludeID})
	}
	return inner.Limit(1)
}

// ChequeExists reports whether number is registered with bank.
func (r *ChequeRepo) ChequeExists(ctx context.Context, number, bank string, excludeID *id.ID) (bool, error) {
	sql, args, err := r.existsQuery(number, bank, excludeID).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &one, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check cheque exists: %w", err)
	}
	return true, nil
}
