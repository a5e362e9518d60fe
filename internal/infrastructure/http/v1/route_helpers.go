package v1

import (
	"github.com/gin-gonic/gin"
)

// ValidationRouteHandler defines the endpoints of the validation API.
type ValidationRouteHandler interface {
	StatusTransition(c *gin.Context)
	Stock(c *gin.Context)
	Transfer(c *gin.Context)
	Credit(c *gin.Context)
	Cheque(c *gin.Context)
	ReturnVoucherNumber(c *gin.Context)
	SKU(c *gin.Context)
	Discount(c *gin.Context)
	Payment(c *gin.Context)
}

// RegisterValidationRoutes registers every validation endpoint on group.
// All endpoints are POST with a JSON body and never write.
//
// Usage:
//
//	handler := handlers.NewValidationHandler(deps, cfg)
//	RegisterValidationRoutes(v1.Group("/validate"), handler)
func RegisterValidationRoutes(group *gin.RouterGroup, handler ValidationRouteHandler) {
	group.POST("/status-transition", handler.StatusTransition)
	group.POST("/stock", handler.Stock)
	group.POST("/stock/transfer", handler.Transfer)
	group.POST("/credit", handler.Credit)
	group.POST("/cheque", handler.Cheque)
	group.POST("/return-voucher-number", handler.ReturnVoucherNumber)
	group.POST("/sku", handler.SKU)
	group.POST("/discount", handler.Discount)
	group.POST("/payment", handler.Payment)
}
