package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"inventra/internal/core/apperror"
)

func TestPayment_ChequeRules(t *testing.T) {
	r := newTestEngine(newTestHandler(), nil)

	code, body := post(t, r, "/validate/payment", map[string]any{
		"customerId":    customer.String(),
		"amount":        "500",
		"paymentDate":   "2026-03-01",
		"paymentMethod": "CHEQUE",
		"chequeNumber":  "12345",
		"bankName":      "CIB",
		"chequeDate":    "2026-03-05",
		"chequeDueDate": "2026-03-04",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, []string{apperror.CodeDuplicateCheque, apperror.CodeInvalidDate}, violationCodes(t, body))
}

func TestPayment_ChequeFieldsRequired(t *testing.T) {
	r := newTestEngine(newTestHandler(), nil)

	code, body := post(t, r, "/validate/payment", map[string]any{
		"customerId":    customer.String(),
		"amount":        "500",
		"paymentDate":   "2026-03-01",
		"paymentMethod": "CHEQUE",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, violationCodes(t, body), 4)
}

func TestPayment_Warnings(t *testing.T) {
	r := newTestEngine(newTestHandler(), nil)

	code, body := post(t, r, "/validate/payment", map[string]any{
		"customerId":    customer.String(),
		"amount":        "1000",
		"paymentDate":   "2026-03-01",
		"paymentMethod": "CHEQUE",
		"chequeNumber":  "999",
		"bankName":      "NBE",
		"chequeDate":    "2026-10-01",
		"chequeDueDate": "2026-10-01",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{apperror.WarnPostDatedCheque, apperror.WarnOverpayment}, warningCodes(body))
}

func TestPayment_VodafoneMobile(t *testing.T) {
	r := newTestEngine(newTestHandler(), nil)

	code, body := post(t, r, "/validate/payment", map[string]any{
		"customerId":        customer.String(),
		"amount":            "100",
		"paymentDate":       "2026-03-01",
		"paymentMethod":     "VODAFONE_CASH",
		"vodafoneNumber":    "01312345678",
		"vodafoneReference": "TX-1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	details := body["details"].(map[string]any)
	assert.Equal(t, "vodafoneNumber", details["field"])
	assert.Equal(t, "eg_mobile", details["rule"])

	code, body = post(t, r, "/validate/payment", map[string]any{
		"customerId":        customer.String(),
		"amount":            "100",
		"paymentDate":       "2026-03-01",
		"paymentMethod":     "VODAFONE_CASH",
		"vodafoneNumber":    "01012345678",
		"vodafoneReference": "TX-1",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, warningCodes(body))
}

func TestPayment_FutureDate(t *testing.T) {
	r := newTestEngine(newTestHandler(), nil)

	code, body := post(t, r, "/validate/payment", map[string]any{
		"customerId":    customer.String(),
		"amount":        "100",
		"paymentDate":   "2026-03-02",
		"paymentMethod": "CASH",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, apperror.CodeInvalidDate, body["code"])
}
