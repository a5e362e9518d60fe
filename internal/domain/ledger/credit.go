package ledger

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/internal/core/types"
	"inventra/pkg/logger"
)

var tracer = otel.Tracer("inventra/ledger")

// OutcomeKind tags the result of a credit check.
type OutcomeKind int

const (
	Allow OutcomeKind = iota
	HardFail
	SoftWarn
)

// String returns the kind name used in logs and API responses.
func (k OutcomeKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case HardFail:
		return "hard_fail"
	case SoftWarn:
		return "soft_warn"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Outcome is the tagged result of a credit check.
// Figures are zero for Allow outcomes that short-circuit on a missing limit.
type Outcome struct {
	Kind           OutcomeKind
	CustomerID     id.ID
	CustomerName   string
	CurrentBalance types.Money
	NewBalance     types.Money
	CreditLimit    types.Money
	Exceeded       types.Money
}

// Err returns CREDIT_LIMIT_EXCEEDED for HardFail and nil otherwise.
func (o Outcome) Err() error {
	if o.Kind != HardFail {
		return nil
	}
	return apperror.NewBusinessRule(
		apperror.CodeCreditLimit,
		fmt.Sprintf("رصيد العميل (%s) سيتجاوز حد الائتمان (%s) بمبلغ %s. لا يمكن إتمام العملية.",
			types.FormatMoney(o.NewBalance), types.FormatMoney(o.CreditLimit), types.FormatMoney(o.Exceeded)),
	).WithField("customer_id").
		WithDetail("customer_id", o.CustomerID.String()).
		WithDetail("new_balance", types.FormatMoney(o.NewBalance)).
		WithDetail("credit_limit", types.FormatMoney(o.CreditLimit)).
		WithDetail("exceeded_amount", types.FormatMoney(o.Exceeded))
}

// Warning returns the advisory for SoftWarn. ok is false for every other kind.
func (o Outcome) Warning() (w apperror.Warning, ok bool) {
	if o.Kind != SoftWarn {
		return apperror.Warning{}, false
	}
	return apperror.NewWarning(
		apperror.WarnCreditLimit,
		"customer_id",
		fmt.Sprintf("تحذير: رصيد العميل '%s' (%s) سيتجاوز حد الائتمان (%s) بمبلغ %s",
			o.CustomerName, types.FormatMoney(o.NewBalance), types.FormatMoney(o.CreditLimit), types.FormatMoney(o.Exceeded)),
	).WithDetail("customer_id", o.CustomerID.String()).
		WithDetail("customer_name", o.CustomerName).
		WithDetail("current_balance", types.FormatMoney(o.CurrentBalance)).
		WithDetail("new_balance", types.FormatMoney(o.NewBalance)).
		WithDetail("credit_limit", types.FormatMoney(o.CreditLimit)).
		WithDetail("exceeded_amount", types.FormatMoney(o.Exceeded)), true
}

// Evaluate applies the credit limit rule to already-fetched figures.
func Evaluate(customer Customer, currentBalance, delta types.Money, blockIfExceeded bool) Outcome {
	out := Outcome{Kind: Allow, CustomerID: customer.ID, CustomerName: customer.Name}
	if !customer.HasLimit() {
		return out
	}

	limit := *customer.CreditLimit
	newBalance := currentBalance.Add(delta)
	out.CurrentBalance = currentBalance
	out.NewBalance = newBalance
	out.CreditLimit = limit

	if newBalance.LessThanOrEqual(limit) {
		return out
	}

	out.Exceeded = newBalance.Sub(limit)
	if blockIfExceeded {
		out.Kind = HardFail
	} else {
		out.Kind = SoftWarn
	}
	return out
}

// Checker runs customer balance checks against the ledger read model.
type Checker struct {
	customers CustomerReader
	ledger    LedgerReader
	txManager tx.ReadOnlyManager
}

// NewChecker creates a ledger checker. txManager may be nil.
func NewChecker(customers CustomerReader, ledger LedgerReader, txManager tx.ReadOnlyManager) *Checker {
	return &Checker{customers: customers, ledger: ledger, txManager: txManager}
}

// Balance returns Σdebit − Σcredit for customerID.
func (c *Checker) Balance(ctx context.Context, customerID id.ID) (types.Money, error) {
	debit, err := c.ledger.SumByType(ctx, customerID, Debit)
	if err != nil {
		return types.Zero(), fmt.Errorf("sum debit entries: %w", err)
	}
	credit, err := c.ledger.SumByType(ctx, customerID, Credit)
	if err != nil {
		return types.Zero(), fmt.Errorf("sum credit entries: %w", err)
	}
	return debit.Sub(credit), nil
}

// Check evaluates adding delta to the customer's balance.
// The error return is reserved for infrastructure failures; rule outcomes
// are carried by Outcome. An unknown customer is allowed.
func (c *Checker) Check(ctx context.Context, customerID id.ID, delta types.Money, blockIfExceeded bool) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "ledger.CreditCheck")
	defer span.End()

	var out Outcome
	err := tx.RunReadOnly(ctx, c.txManager, func(ctx context.Context) error {
		customer, err := c.customers.GetCustomer(ctx, customerID)
		if err != nil {
			if apperror.IsNotFound(err) {
				out = Outcome{Kind: Allow, CustomerID: customerID}
				return nil
			}
			return fmt.Errorf("get customer: %w", err)
		}
		if !customer.HasLimit() {
			out = Evaluate(customer, types.Zero(), delta, blockIfExceeded)
			return nil
		}

		balance, err := c.Balance(ctx, customerID)
		if err != nil {
			return err
		}
		out = Evaluate(customer, balance, delta, blockIfExceeded)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return Outcome{}, err
	}

	span.SetAttributes(attribute.String("credit.outcome", out.Kind.String()))
	if out.Kind != Allow {
		logger.Warn(ctx, "credit limit exceeded",
			"customer_id", customerID,
			"outcome", out.Kind.String(),
			"new_balance", out.NewBalance.String(),
			"credit_limit", out.CreditLimit.String(),
			"exceeded", out.Exceeded.String(),
		)
	}
	return out, nil
}

// OverpaymentWarning returns an advisory when amount exceeds the customer's
// positive balance. A zero or negative balance never warns.
func (c *Checker) OverpaymentWarning(ctx context.Context, customerID id.ID, amount types.Money) (*apperror.Warning, error) {
	balance, err := c.Balance(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !balance.IsPositive() || amount.LessThanOrEqual(balance) {
		return nil, nil
	}
	w := apperror.NewWarning(
		apperror.WarnOverpayment,
		"amount",
		fmt.Sprintf("تحذير: المبلغ المدفوع (%s) أكبر من رصيد العميل الحالي (%s)",
			types.FormatMoney(amount), types.FormatMoney(balance)),
	).WithDetail("amount", types.FormatMoney(amount)).
		WithDetail("balance", types.FormatMoney(balance))
	return &w, nil
}
