// Package read_repo provides the PostgreSQL read models behind the validation checks.
// Every query is a SELECT; nothing in this package writes.
package read_repo

import (
	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"inventra/internal/core/types"
	"inventra/internal/infrastructure/storage/postgres"
)

// Table names of the ERP schema read by the checks.
const (
	stockTable         = "product_branch_stock"
	customersTable     = "customers"
	ledgerTable        = "customer_ledger"
	chequesTable       = "cheques"
	vouchersTable      = "return_vouchers"
	issueVouchersTable = "issue_vouchers"
)

type baseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func newBaseRepo(txm *postgres.TxManager) baseRepo {
	return baseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// parseMoney converts a numeric rendered as text. NULL and empty become zero.
func parseMoney(s *string) (types.Money, error) {
	if s == nil || *s == "" {
		return decimal.Zero, nil
	}
	return types.NewMoneyFromString(*s)
}
