package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/logger"
	"github.com/capibaras/clientele/pkg/response"
)

// Recovery converts panics into the generic 500 error body and logs the
// panic value. Clients never see internals.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("http").Error("panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", r),
				)
				response.AbortWithError(c, apperrors.ErrInternalServer)
			}
		}()
		c.Next()
	}
}
