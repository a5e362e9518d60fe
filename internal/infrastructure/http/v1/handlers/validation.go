package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
	"inventra/internal/core/types"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/documents/status"
	"inventra/internal/domain/documents/voucher"
	"inventra/internal/domain/ledger"
	"inventra/internal/domain/payments/cheque"
	"inventra/internal/domain/pricing"
	"inventra/internal/domain/registers/stock"
	"inventra/internal/infrastructure/http/v1/dto"
)

// Document types accepted by the status transition endpoint.
const (
	DocIssueVoucher  = "issue_voucher"
	DocReturnVoucher = "return_voucher"
	DocPurchaseOrder = "purchase_order"
)

// DefaultGuards returns one status guard per document type.
func DefaultGuards() map[string]*status.Guard {
	return map[string]*status.Guard{
		DocIssueVoucher:  status.NewGuard("إذن صرف"),
		DocReturnVoucher: status.NewGuard("إذن مرتجع"),
		DocPurchaseOrder: status.NewGuard("أمر شراء"),
	}
}

// ValidationConfig holds server-side defaults for the checks.
type ValidationConfig struct {
	// BlockIfExceeded is used when a credit request does not choose.
	BlockIfExceeded bool
	// PostDatedMonths is the post-dated cheque warning threshold.
	PostDatedMonths int
}

// ValidationDeps are the checkers behind the validation endpoints.
type ValidationDeps struct {
	Guards   map[string]*status.Guard
	Stock    *stock.Checker
	Credit   *ledger.Checker
	Cheques  *cheque.Checker
	Vouchers *voucher.Checker
}

// ValidationHandler exposes the document validation checks.
type ValidationHandler struct {
	*BaseHandler
	deps ValidationDeps
	cfg  ValidationConfig
	now  func() time.Time
}

// NewValidationHandler creates a validation handler.
func NewValidationHandler(deps ValidationDeps, cfg ValidationConfig) *ValidationHandler {
	if deps.Guards == nil {
		deps.Guards = DefaultGuards()
	}
	if cfg.PostDatedMonths <= 0 {
		cfg.PostDatedMonths = cheque.DefaultPostDatedMonths
	}
	return &ValidationHandler{
		BaseHandler: NewBaseHandler(),
		deps:        deps,
		cfg:         cfg,
		now:         time.Now,
	}
}

// StatusTransition validates a status change.
// POST /api/v1/validate/status-transition
func (h *ValidationHandler) StatusTransition(c *gin.Context) {
	var req dto.StatusTransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	docType := req.DocumentType
	if docType == "" {
		docType = DocIssueVoucher
	}
	guard, ok := h.deps.Guards[docType]
	if !ok {
		h.Error(c, apperror.NewValidation("نوع المستند غير مدعوم").WithField("documentType"))
		return
	}

	var current *status.Status
	if req.Current != nil {
		current = status.Ref(status.Status(*req.Current))
	}
	proposed := status.Status(req.Proposed)

	if err := guard.Validate(current, proposed); err != nil {
		h.Error(c, err)
		return
	}

	next := guard.AllowedNext(proposed)
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = string(s)
	}
	h.OK(c, dto.StatusTransitionResponse{
		ValidationResponse: dto.NewValidationResponse(),
		AllowedNext:        allowed,
	})
}

// Stock validates voucher lines against a branch.
// POST /api/v1/validate/stock
func (h *ValidationHandler) Stock(c *gin.Context) {
	var req dto.StockCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok || !h.RequireBranchAccess(c, branchID) {
		return
	}

	items, ok := h.stockItems(c, req.Items)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	if len(req.Items) == 1 {
		line := req.Items[0]
		err = h.deps.Stock.CheckDelta(ctx, *items[0].ProductID, branchID, line.Quantity, line.ExistingQuantity)
	} else {
		err = h.deps.Stock.CheckItems(ctx, branchID, items)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewValidationResponse())
}

// Transfer validates a branch-to-branch transfer.
// POST /api/v1/validate/stock/transfer
func (h *ValidationHandler) Transfer(c *gin.Context) {
	var req dto.TransferCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	source, ok := h.ParseID(c, "sourceBranchId", req.SourceBranchID)
	if !ok || !h.RequireBranchAccess(c, source) {
		return
	}
	target, ok := h.ParseID(c, "targetBranchId", req.TargetBranchID)
	if !ok {
		return
	}
	items, ok := h.stockItems(c, req.Items)
	if !ok {
		return
	}

	if err := h.deps.Stock.CheckTransfer(c.Request.Context(), source, target, items); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewValidationResponse())
}

// Credit validates a proposed ledger delta against the customer's credit limit.
// POST /api/v1/validate/credit
func (h *ValidationHandler) Credit(c *gin.Context) {
	var req dto.CreditCheckRequest
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

	block := h.cfg.BlockIfExceeded
	if req.BlockIfExceeded != nil {
		block = *req.BlockIfExceeded
	}

	out, err := h.deps.Credit.Check(c.Request.Context(), customerID, amount, block)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := out.Err(); err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.CreditCheckResponse{
		ValidationResponse: dto.NewValidationResponse(),
		Outcome:            out.Kind.String(),
	}
	if w, ok := out.Warning(); ok {
		resp.Warnings = append(resp.Warnings, w)
	}
	if !out.CreditLimit.IsZero() {
		resp.CurrentBalance = types.FormatMoney(out.CurrentBalance)
		resp.NewBalance = types.FormatMoney(out.NewBalance)
		resp.CreditLimit = types.FormatMoney(out.CreditLimit)
	}
	h.OK(c, resp)
}

// Cheque validates cheque number uniqueness and date ordering.
// POST /api/v1/validate/cheque
func (h *ValidationHandler) Cheque(c *gin.Context) {
	var req dto.ChequeCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	excludeID, err := dto.ParseOptionalID(req.ExcludeID)
	if err != nil {
		h.Error(c, apperror.NewValidation("معرف غير صالح").WithField("excludeId"))
		return
	}
	paymentDate, _ := dto.ParseDate(req.PaymentDate)
	chequeDate, _ := dto.ParseDate(req.ChequeDate)
	dueDate, _ := dto.ParseDate(req.DueDate)

	err = combineViolations(
		h.deps.Cheques.CheckUnique(c.Request.Context(), req.ChequeNumber, req.BankName, excludeID),
		cheque.CheckDates(paymentDate, chequeDate, dueDate),
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.NewValidationResponse()
	if w := cheque.PostDatedWarning(chequeDate, h.now(), h.cfg.PostDatedMonths); w != nil {
		resp.Warnings = append(resp.Warnings, *w)
	}
	h.OK(c, resp)
}

// ReturnVoucherNumber validates a return voucher number's format and uniqueness.
// POST /api/v1/validate/return-voucher-number
func (h *ValidationHandler) ReturnVoucherNumber(c *gin.Context) {
	var req dto.VoucherNumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok || !h.RequireBranchAccess(c, branchID) {
		return
	}
	excludeID, err := dto.ParseOptionalID(req.ExcludeID)
	if err != nil {
		h.Error(c, apperror.NewValidation("معرف غير صالح").WithField("excludeId"))
		return
	}

	if err := h.deps.Vouchers.Check(c.Request.Context(), req.VoucherNumber, branchID, excludeID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewValidationResponse())
}

// SKU validates a product SKU.
// POST /api/v1/validate/sku
func (h *ValidationHandler) SKU(c *gin.Context) {
	var req dto.SKURequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := product.ValidateSKU(req.SKU); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewValidationResponse())
}

// Discount validates a discount against a voucher total.
// POST /api/v1/validate/discount
func (h *ValidationHandler) Discount(c *gin.Context) {
	var req dto.DiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	value, err := dto.ParseMoney(req.Value)
	if err != nil {
		h.Error(c, apperror.NewValidation("قيمة الخصم غير صالحة").WithField("value"))
		return
	}
	total, err := dto.ParseMoney(req.Total)
	if err != nil {
		h.Error(c, apperror.NewValidation("الإجمالي غير صالح").WithField("total"))
		return
	}

	if err := pricing.CheckDiscount(req.DiscountType, value, total); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewValidationResponse())
}

func (h *ValidationHandler) stockItems(c *gin.Context, lines []dto.StockItemRequest) ([]stock.Item, bool) {
	items := make([]stock.Item, 0, len(lines))
	for _, line := range lines {
		productID, ok := h.ParseID(c, "productId", line.ProductID)
		if !ok {
			return nil, false
		}
		items = append(items, stock.Item{ProductID: &productID, Quantity: line.Quantity - line.ExistingQuantity})
	}
	return items, true
}

// combineViolations merges rule violations. An infrastructure error among
// them is returned alone so it is not rendered as a violation.
func combineViolations(errs ...error) error {
	for _, err := range errs {
		if err != nil && !apperror.IsAppError(err) {
			return err
		}
	}
	return multierr.Combine(errs...)
}

