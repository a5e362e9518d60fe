package dto

// StatusTransitionRequest asks whether a document may move to Proposed.
// A nil Current means the document is new.
type StatusTransitionRequest struct {
	DocumentType string  `json:"documentType" binding:"omitempty,oneof=issue_voucher return_voucher purchase_order"`
	Current      *string `json:"current"`
	Proposed     string  `json:"proposed" binding:"required"`
}

// StatusTransitionResponse adds the statuses reachable from the proposed one.
type StatusTransitionResponse struct {
	ValidationResponse
	AllowedNext []string `json:"allowedNext"`
}

// StockItemRequest is one voucher line. ExistingQuantity is the quantity
// already issued when the line is being edited.
type StockItemRequest struct {
	ProductID        string `json:"productId" binding:"required,uuid"`
	Quantity         int64  `json:"quantity" binding:"gt=0"`
	ExistingQuantity int64  `json:"existingQuantity" binding:"gte=0"`
}

// StockCheckRequest checks lines against one branch.
type StockCheckRequest struct {
	BranchID string             `json:"branchId" binding:"required,uuid"`
	Items    []StockItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransferCheckRequest checks a branch-to-branch transfer.
type TransferCheckRequest struct {
	SourceBranchID string             `json:"sourceBranchId" binding:"required,uuid"`
	TargetBranchID string             `json:"targetBranchId" binding:"required,uuid"`
	Items          []StockItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreditCheckRequest checks adding Amount to a customer's balance.
// BlockIfExceeded defaults to the server configuration.
type CreditCheckRequest struct {
	CustomerID      string `json:"customerId" binding:"required,uuid"`
	Amount          string `json:"amount" binding:"required,money"`
	BlockIfExceeded *bool  `json:"blockIfExceeded"`
}

// CreditCheckResponse reports the figures behind the outcome.
type CreditCheckResponse struct {
	ValidationResponse
	Outcome        string `json:"outcome"`
	CurrentBalance string `json:"currentBalance,omitempty"`
	NewBalance     string `json:"newBalance,omitempty"`
	CreditLimit    string `json:"creditLimit,omitempty"`
}

// ChequeCheckRequest checks a cheque number and, when given, its dates.
type ChequeCheckRequest struct {
	ChequeNumber string `json:"chequeNumber" binding:"required,max=50"`
	BankName     string `json:"bankName" binding:"max=100"`
	ExcludeID    string `json:"excludeId" binding:"omitempty,uuid"`
	PaymentDate  string `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	ChequeDate   string `json:"chequeDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate      string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// VoucherNumberRequest checks a return voucher number.
type VoucherNumberRequest struct {
	VoucherNumber string `json:"voucherNumber" binding:"required"`
	BranchID      string `json:"branchId" binding:"required,uuid"`
	ExcludeID     string `json:"excludeId" binding:"omitempty,uuid"`
}

// SKURequest checks a product SKU.
type SKURequest struct {
	SKU string `json:"sku"`
}

// DiscountRequest checks a discount against a voucher total.
type DiscountRequest struct {
	DiscountType string `json:"discountType"`
	Value        string `json:"value" binding:"required,money"`
	Total        string `json:"total" binding:"required,money"`
}

// Payment methods.
const (
	PaymentCash         = "CASH"
	PaymentCheque       = "CHEQUE"
	PaymentVodafoneCash = "VODAFONE_CASH"
	PaymentInstapay     = "INSTAPAY"
	PaymentBankAccount  = "BANK_ACCOUNT"
)

// PaymentRequest checks a proposed customer payment before it is recorded.
type PaymentRequest struct {
	CustomerID      string `json:"customerId" binding:"required,uuid"`
	Amount          string `json:"amount" binding:"required,money,positive_money"`
	PaymentDate     string `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	PaymentMethod   string `json:"paymentMethod" binding:"required,oneof=CASH CHEQUE VODAFONE_CASH INSTAPAY BANK_ACCOUNT"`
	ChequeNumber    string `json:"chequeNumber" binding:"required_if=PaymentMethod CHEQUE,max=50"`
	BankName        string `json:"bankName" binding:"required_if=PaymentMethod CHEQUE,max=100"`
	ChequeDate      string `json:"chequeDate" binding:"required_if=PaymentMethod CHEQUE,omitempty,datetime=2006-01-02"`
	ChequeDueDate   string `json:"chequeDueDate" binding:"required_if=PaymentMethod CHEQUE,omitempty,datetime=2006-01-02"`
	ExcludeChequeID string `json:"excludeChequeId" binding:"omitempty,uuid"`
	VodafoneNumber  string `json:"vodafoneNumber" binding:"required_if=PaymentMethod VODAFONE_CASH,omitempty,eg_mobile"`
	VodafoneRef     string `json:"vodafoneReference" binding:"required_if=PaymentMethod VODAFONE_CASH,max=50"`
}
