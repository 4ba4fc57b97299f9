package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/capibaras/clientele/internal/auth"
	"github.com/capibaras/clientele/internal/middleware"
	"github.com/capibaras/clientele/internal/models"
	apperrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// callerIdentity returns the gateway identity or writes a 401 when the
// identity middleware did not attach one.
func callerIdentity(c *gin.Context) (*iauth.Identity, bool) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		response.AbortWithError(c, apperrors.ErrTokenMissing)
		return nil, false
	}
	return identity, true
}

// requireRole writes a 403 unless the caller holds one of the given roles.
func requireRole(c *gin.Context, identity *iauth.Identity, roles ...models.Role) bool {
	for _, role := range roles {
		if identity.Role == role {
			return true
		}
	}
	response.AbortWithError(c, apperrors.ErrForbidden)
	return false
}
