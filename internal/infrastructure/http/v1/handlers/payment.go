package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"inventra/internal/core/apperror"
	"inventra/internal/domain/payments/cheque"
	"inventra/internal/infrastructure/http/v1/dto"
)

// Payment validates a proposed customer payment before it is recorded.
// Cheque payments get the uniqueness and date rules; every payment is
// checked for overpayment against the customer's balance.
// POST /api/v1/validate/payment
func (h *ValidationHandler) Payment(c *gin.Context) {
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customerID, ok := h.ParseID(c, "customerId", req.CustomerID)
	if !ok {
		return
	}
	amount, err := dto.ParseMoney(req.Amount)
	if err != nil {
		h.Error(c, apperror.NewValidation("المبلغ غير صالح").WithField("amount"))
		return
	}
	paymentDate, _ := dto.ParseDate(req.PaymentDate)

	errs := []error{checkNotFuture(paymentDate, h.now())}
	resp := dto.NewValidationResponse()
	ctx := c.Request.Context()

	if req.PaymentMethod == dto.PaymentCheque {
		excludeID, err := dto.ParseOptionalID(req.ExcludeChequeID)
		if err != nil {
			h.Error(c, apperror.NewValidation("معرف غير صالح").WithField("excludeChequeId"))
			return
		}
		chequeDate, _ := dto.ParseDate(req.ChequeDate)
		dueDate, _ := dto.ParseDate(req.ChequeDueDate)

		errs = append(errs,
			h.deps.Cheques.CheckUnique(ctx, req.ChequeNumber, req.BankName, excludeID),
			cheque.CheckDates(paymentDate, chequeDate, dueDate),
		)
		if w := cheque.PostDatedWarning(chequeDate, h.now(), h.cfg.PostDatedMonths); w != nil {
			resp.Warnings = append(resp.Warnings, *w)
		}
	}

	if err := combineViolations(errs...); err != nil {
		h.Error(c, err)
		return
	}

	w, err := h.deps.Credit.OverpaymentWarning(ctx, customerID, amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	if w != nil {
		resp.Warnings = append(resp.Warnings, *w)
	}
	h.OK(c, resp)
}

func checkNotFuture(paymentDate, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(paymentDate.Year(), paymentDate.Month(), paymentDate.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return apperror.NewBusinessRule(apperror.CodeInvalidDate, "تاريخ الدفع لا يمكن أن يكون في المستقبل").
			WithField("payment_date").
			WithDetail("payment_date", paymentDate.Format(dto.DateLayout))
	}
	return nil
}
