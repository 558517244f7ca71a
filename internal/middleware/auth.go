package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ndtollman/mainstay/internal/auth"
	"github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// CtxUserIDKey is the gin context key holding the authenticated user id.
const CtxUserIDKey = "userID"

// Session validates the bearer session token and propagates the resolved
// user id into the request context. Requests without a valid token are
// rejected with 401.
func Session(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.AbortError(c, errors.ErrUnauthorized)
			return
		}

		userID, err := sessions.Validate(strings.TrimSpace(authz[7:]))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.AbortError(c, errors.ErrUnauthorized)
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// UserID extracts the authenticated user id from the context, if any.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return "", false
	}
	userID, _ := v.(string)
	return userID, userID != ""
}
