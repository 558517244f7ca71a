package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/database/testutil"
	"github.com/ndtollman/mainstay/internal/models"
)

func setupSeededDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	init, err := NewInitializer(db)
	require.NoError(t, err)
	require.NoError(t, init.Initialize(context.Background()))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func grantTestRole(t *testing.T, db *gorm.DB, userID, roleName string, active bool) models.UserRole {
	t.Helper()

	var role models.Role
	require.NoError(t, db.First(&role, "name = ?", roleName).Error)

	link := models.UserRole{
		UserID:     userID,
		RoleID:     role.ID,
		AssignedBy: userID,
		IsActive:   active,
	}
	require.NoError(t, db.Create(&link).Error)
	return link
}

func mustResolver(t *testing.T, db *gorm.DB) *Resolver {
	t.Helper()

	resolver, err := NewResolver(db)
	require.NoError(t, err)
	return resolver
}
