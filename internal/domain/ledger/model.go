// Package ledger holds customer balance rules: the credit limit check and the
// overpayment advisory.
package ledger

import (
	"context"

	"inventra/internal/core/id"
	"inventra/internal/core/types"
)

// EntryType is the side of a customer ledger entry.
type EntryType string

const (
	// Debit entries (sales) increase what the customer owes.
	Debit EntryType = "debit"
	// Credit entries (payments, returns) decrease it.
	Credit EntryType = "credit"
)

// Customer is the subset of the customer record the checks read.
type Customer struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code,omitempty"`
	Name string `db:"name" json:"name"`
	// CreditLimit nil or not positive means unlimited.
	CreditLimit *types.Money `db:"credit_limit" json:"credit_limit,omitempty"`
}

// HasLimit reports whether a positive credit limit is set.
func (c Customer) HasLimit() bool {
	return c.CreditLimit != nil && c.CreditLimit.IsPositive()
}

// CustomerReader looks up customers.
// A missing customer is reported with apperror.NewNotFound.
type CustomerReader interface {
	GetCustomer(ctx context.Context, customerID id.ID) (Customer, error)
}

// LedgerReader sums ledger amounts for a customer.
type LedgerReader interface {
	SumByType(ctx context.Context, customerID id.ID, entryType EntryType) (types.Money, error)
}
