package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventra/internal/core/apperror"
	"inventra/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// A combined error renders its first violation at the top level and every
// violation under "violations". Internal errors are hidden from clients.
//
// It must be registered before Recovery so it renders recovered panics.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		violations := apperror.Flatten(err)
		for _, v := range violations {
			if v.HTTPStatus >= http.StatusInternalServerError {
				logger.Error(c.Request.Context(), "request error",
					"code", v.Code,
					"error", err,
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    apperror.CodeInternal,
					"message": "Internal server error",
					"details": map[string]any{
						"request_id": c.GetString("request_id"),
					},
				})
				return
			}
		}

		first := violations[0]
		if first.Err != nil {
			logger.Warn(c.Request.Context(), "request error",
				"code", first.Code,
				"cause", first.Err,
			)
		}

		c.JSON(first.HTTPStatus, gin.H{
			"code":       first.Code,
			"message":    first.Message,
			"details":    first.Details,
			"violations": violations,
		})
	}
}
