package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apiErrors "github.com/capibaras/clientele/pkg/errors"
)

// ErrorBody is the wire shape for every error response.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON writes a bare JSON payload with the given status code.
//
// Unlike envelope-style APIs, successful responses carry the resource
// representation directly (objects or arrays), so there is no wrapper type.
func JSON(c *gin.Context, statusCode int, payload any) {
	c.JSON(statusCode, payload)
}

// Error writes a JSON error response derived from an APIError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = apiErrors.ErrInternalServer
	}

	apiErr := apiErrors.FromError(err)
	status := apiErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorBody{
		Code:    status,
		Message: apiErr.Message,
	})
}

// AbortWithError writes an error response and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
