package read_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/id"
	"inventra/internal/domain/documents/voucher"
	"inventra/internal/infrastructure/storage/postgres"
)

var _ voucher.Reader = (*VoucherRepo)(nil)

// VoucherRepo looks up return vouchers by number.
type VoucherRepo struct {
	baseRepo
}

// NewVoucherRepo creates a return voucher read repository.
func NewVoucherRepo(txm *postgres.TxManager) *VoucherRepo {
	return &VoucherRepo{baseRepo: newBaseRepo(txm)}
}

func (r *VoucherRepo) branchesQuery(number string, excludeID *id.ID) squirrel.SelectBuilder {
	q := r.builder.Select("branch_id").
		From(vouchersTable).
		Where(squirrel.Eq{"voucher_number": number})
	if excludeID != nil {
		q = q.Where(squirrel.NotEq{"id": *excludeID})
	}
	return q.OrderBy("created_at")
}

// VoucherBranches returns the branch of every voucher with number.
func (r *VoucherRepo) VoucherBranches(ctx context.Context, number string, excludeID *id.ID) ([]id.ID, error) {
	sql, args, err := r.branchesQuery(number, excludeID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var branches []id.ID
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &branches, sql, args...); err != nil {
		return nil, fmt.Errorf("select voucher branches: %w", err)
	}
	return branches, nil
}
