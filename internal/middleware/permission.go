package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ndtollman/mainstay/internal/rbac"
	"github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/metrics"
	"github.com/ndtollman/mainstay/pkg/response"
)

// RequirePermission gates a route on a single permission. No authenticated
// user yields 401; a failed check yields 403. Resolution failures inside the
// resolver already collapse to a deny, so the gate never grants on error.
func RequirePermission(resolver *rbac.Resolver, perm rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			metrics.PermissionChecks.WithLabelValues(perm.String(), "unauthenticated").Inc()
			response.AbortError(c, errors.ErrUnauthorized)
			return
		}

		if !resolver.HasPermission(c.Request.Context(), userID, perm) {
			metrics.PermissionChecks.WithLabelValues(perm.String(), "denied").Inc()
			response.AbortError(c, errors.ErrForbidden)
			return
		}

		metrics.PermissionChecks.WithLabelValues(perm.String(), "allowed").Inc()
		c.Next()
	}
}

// RequireAnyPermission gates a route on holding at least one of the given
// permissions.
func RequireAnyPermission(resolver *rbac.Resolver, perms ...rbac.Permission) gin.HandlerFunc {
	label := "any"
	if len(perms) == 1 {
		label = perms[0].String()
	}

	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			metrics.PermissionChecks.WithLabelValues(label, "unauthenticated").Inc()
			response.AbortError(c, errors.ErrUnauthorized)
			return
		}

		if !resolver.HasAnyPermission(c.Request.Context(), userID, perms...) {
			metrics.PermissionChecks.WithLabelValues(label, "denied").Inc()
			response.AbortError(c, errors.ErrForbidden)
			return
		}

		metrics.PermissionChecks.WithLabelValues(label, "allowed").Inc()
		c.Next()
	}
}
