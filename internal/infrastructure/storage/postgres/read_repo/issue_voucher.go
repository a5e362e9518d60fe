package read_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/id"
	"inventra/internal/infrastructure/storage/postgres"
)

// IssueVoucherRepo looks up issue vouchers referenced by imported cheques.
type IssueVoucherRepo struct {
	baseRepo
}

// NewIssueVoucherRepo creates an issue voucher read repository.
func NewIssueVoucherRepo(txm *postgres.TxManager) *IssueVoucherRepo {
	return &IssueVoucherRepo{baseRepo: newBaseRepo(txm)}
}

// existsQuery matches ref as a voucher number, or as the row id when it is a UUID.
func (r *IssueVoucherRepo) existsQuery(ref string) squirrel.SelectBuilder {
	var where squirrel.Sqlizer = squirrel.Eq{"voucher_number": ref}
	if voucherID, err := id.Parse(ref); err == nil {
		where = squirrel.Or{where, squirrel.Eq{"id": voucherID}}
	}
	return r.builder.Select("1").
		From(issueVouchersTable).
		Where(where).
		Limit(1)
}

// IssueVoucherExists reports whether ref names an issue voucher.
func (r *IssueVoucherRepo) IssueVoucherExists(ctx context.Context, ref string) (bool, error) {
	sql, args, err := r.existsQuery(ref).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &one, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check issue voucher exists: %w", err)
	}
	return true, nil
}
