package middleware

import (
	"github.com/muhammedkh45/Echoo/internal/transport/httpdto"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal details are logged, never returned.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := echoo_errors.HTTPStatus(err)
		if l != nil {
			if status >= 500 {
				l.ErrorCtx(c.Request.Context(), "request failed", zap.Int("status", status), zap.Error(err))
			} else {
				l.InfoCtx(c.Request.Context(), "request rejected", zap.Int("status", status), zap.Error(err))
			}
		}
		c.JSON(status, httpdto.ErrorResponseFor(err))
	}
}
