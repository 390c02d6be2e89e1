package middleware

import (
	"reward-platform/pkg/httpapi"
	"reward-platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error renders the last error pushed with c.Error as the error envelope.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		logger.FromContext(c.Request.Context()).Debug("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		httpapi.Fail(c, err)
	}
}
