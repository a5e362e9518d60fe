package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventra/internal/core/apperror"
	appctx "inventra/internal/core/context"
	"inventra/internal/core/id"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, bindingViolations(err))
		return false
	}
	return true
}

// Error registers err on the Gin context and aborts the request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// ParseID parses a UUID the binding layer already checked; field names the violation otherwise.
func (h *BaseHandler) ParseID(c *gin.Context, field, value string) (id.ID, bool) {
	parsed, err := id.Parse(value)
	if err != nil {
		h.Error(c, apperror.NewValidation("معرف غير صالح").WithField(field))
		return id.Nil(), false
	}
	return parsed, true
}

// RequireBranchAccess aborts with 403 unless the caller may act on branchID.
func (h *BaseHandler) RequireBranchAccess(c *gin.Context, branchID id.ID) bool {
	if appctx.HasBranchAccess(c.Request.Context(), branchID.String()) {
		return true
	}
	h.Error(c, apperror.NewForbidden("ليس لديك صلاحية على هذا الفرع").
		WithDetail("branch_id", branchID.String()))
	return false
}
