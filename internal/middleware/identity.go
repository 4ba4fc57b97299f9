package middleware

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/capibaras/clientele/internal/auth"
	"github.com/capibaras/clientele/pkg/response"
)

// CtxIdentityKey is the gin context key holding the parsed caller identity.
const CtxIdentityKey = "callerIdentity"

// Identity extracts the gateway-injected caller identity and makes it
// available to handlers. Requests without a parseable identity stop here
// with a 401.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := iauth.ParseIdentity(c.Request)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set(CtxIdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the caller identity attached by Identity, or nil when
// the middleware did not run.
func IdentityFrom(c *gin.Context) *iauth.Identity {
	value, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*iauth.Identity)
	return identity
}
