package read_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/domain/ledger"
	"inventra/internal/infrastructure/storage/postgres"
)

var _ ledger.CustomerReader = (*CustomerRepo)(nil)

type customerRow struct {
	ID          id.ID   `db:"id"`
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	CreditLimit *string `db:"credit_limit"`
}

// CustomerRepo reads customer credit limits.
type CustomerRepo struct {
	baseRepo
}

// NewCustomerRepo creates a customer read repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{baseRepo: newBaseRepo(txm)}
}

var customerColumns = []string{"id", "code", "name", "credit_limit::text AS credit_limit"}

func (r *CustomerRepo) getCustomerQuery(customerID id.ID) squirrel.SelectBuilder {
	return r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"id": customerID}).
		Limit(1)
}

func (r *CustomerRepo) customerByCodeQuery(code string) squirrel.SelectBuilder {
	return r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)
}

// GetCustomer returns the customer or an apperror not found.
func (r *CustomerRepo) GetCustomer(ctx context.Context, customerID id.ID) (ledger.Customer, error) {
	return r.getOne(ctx, r.getCustomerQuery(customerID), customerID.String())
}

// CustomerByCode looks a customer up by its business code.
func (r *CustomerRepo) CustomerByCode(ctx context.Context, code string) (ledger.Customer, error) {
	return r.getOne(ctx, r.customerByCodeQuery(code), code)
}

func (r *CustomerRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (ledger.Customer, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return ledger.Customer{}, fmt.Errorf("build query: %w", err)
	}

	var row customerRow
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.Customer{}, apperror.NewNotFound("customer", key)
		}
		return ledger.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	customer := ledger.Customer{ID: row.ID, Code: row.Code, Name: row.Name}
	if row.CreditLimit != nil {
		l, err := parseMoney(row.CreditLimit)
		if err != nil {
			return ledger.Customer{}, fmt.Errorf("parse credit limit: %w", err)
		}
		customer.CreditLimit = &l
	}
	return customer, nil
}
