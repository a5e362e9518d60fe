package apperror

// Warning codes
const (
	WarnCreditLimit     = "CREDIT_LIMIT_WARNING"
	WarnPostDatedCheque = "POST_DATED_CHEQUE"
	WarnOverpayment     = "OVERPAYMENT"
)

// Warning is a non-blocking advisory. It deliberately does not implement
// error, so it cannot be returned or combined where a failure is expected.
type Warning struct {
	Code    string         `json:"code"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewWarning creates a warning for field.
func NewWarning(code, field, message string) Warning {
	return Warning{Code: code, Field: field, Message: message}
}

// WithDetail returns a copy of w with key set in Details.
func (w Warning) WithDetail(key string, value any) Warning {
	details := make(map[string]any, len(w.Details)+1)
	for k, v := range w.Details {
		details[k] = v
	}
	details[key] = value
	w.Details = details
	return w
}
