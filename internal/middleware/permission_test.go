package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/database/testutil"
	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/internal/rbac"
)

// fakeAuth propagates the X-Test-User header into the context the way the
// session middleware would after validating a token.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(CtxUserIDKey, user)
		}
		c.Next()
	}
}

func setupPermissionTest(t *testing.T) (*gorm.DB, *rbac.Resolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	init, err := rbac.NewInitializer(db)
	require.NoError(t, err)
	require.NoError(t, init.Initialize(context.Background()))

	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)
	return db, resolver
}

func createUserWithRole(t *testing.T, db *gorm.DB, username, roleName string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	var role models.Role
	require.NoError(t, db.First(&role, "name = ?", roleName).Error)
	require.NoError(t, db.Create(&models.UserRole{
		UserID: user.ID, RoleID: role.ID, AssignedBy: user.ID, IsActive: true,
	}).Error)
	return user
}

func doRequest(r *gin.Engine, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/assets", nil)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermissionWithoutSessionIs401(t *testing.T) {
	_, resolver := setupPermissionTest(t)

	r := gin.New()
	r.POST("/assets", fakeAuth(), RequirePermission(resolver, rbac.PermAssetsWrite), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRequirePermissionDeniedIs403(t *testing.T) {
	db, resolver := setupPermissionTest(t)
	user := createUserWithRole(t, db, "reader", rbac.RoleUser)

	r := gin.New()
	r.POST("/assets", fakeAuth(), RequirePermission(resolver, rbac.PermAssetsWrite), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, user.ID)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"error":"Forbidden: Insufficient permissions"}`, w.Body.String())
}

func TestRequirePermissionPassesThrough(t *testing.T) {
	db, resolver := setupPermissionTest(t)
	tech := createUserWithRole(t, db, "tech", rbac.RoleTechnician)

	handlerRan := false
	r := gin.New()
	r.POST("/assets", fakeAuth(), RequirePermission(resolver, rbac.PermAssetsWrite), func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	w := doRequest(r, tech.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, handlerRan)
}

func TestRequireAnyPermission(t *testing.T) {
	db, resolver := setupPermissionTest(t)
	user := createUserWithRole(t, db, "anyreader", rbac.RoleUser)

	r := gin.New()
	r.POST("/assets", fakeAuth(),
		RequireAnyPermission(resolver, rbac.PermAssetsWrite, rbac.PermAssetsRead),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	r2 := gin.New()
	r2.POST("/assets", fakeAuth(),
		RequireAnyPermission(resolver, rbac.PermAssetsWrite, rbac.PermAssetsDelete),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w = doRequest(r2, user.ID)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionFailsClosedOnStorageOutage(t *testing.T) {
	db, resolver := setupPermissionTest(t)
	tech := createUserWithRole(t, db, "outage", rbac.RoleTechnician)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	r := gin.New()
	r.POST("/assets", fakeAuth(), RequirePermission(resolver, rbac.PermAssetsWrite), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, tech.ID)
	require.Equal(t, http.StatusForbidden, w.Code)
}
