package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/models"
)

// createCustomRole wires a role holding exactly the given permissions,
// bypassing the seed catalogs.
func createCustomRole(t *testing.T, db *gorm.DB, name string, perms ...Permission) models.Role {
	t.Helper()

	role := models.Role{Name: name, IsActive: true}
	require.NoError(t, db.Create(&role).Error)

	for _, p := range perms {
		var perm models.Permission
		require.NoError(t, db.First(&perm, "name = ?", p.String()).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	}
	return role
}

func TestHasAnyAndHasAllTruthTable(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "pair")
	role := createCustomRole(t, db, "PAIR", PermAssetsRead, PermSitesRead)
	require.NoError(t, db.Create(&models.UserRole{
		UserID: user.ID, RoleID: role.ID, AssignedBy: user.ID, IsActive: true,
	}).Error)

	ctx := context.Background()

	require.True(t, resolver.HasAnyPermission(ctx, user.ID, PermUsersDelete, PermSitesRead))
	require.False(t, resolver.HasAnyPermission(ctx, user.ID, PermUsersDelete, PermRolesWrite))
	require.False(t, resolver.HasAnyPermission(ctx, user.ID))

	require.True(t, resolver.HasAllPermissions(ctx, user.ID, PermAssetsRead, PermSitesRead))
	require.False(t, resolver.HasAllPermissions(ctx, user.ID, PermAssetsRead, PermUsersDelete))
	require.True(t, resolver.HasAllPermissions(ctx, user.ID))
}

func TestHasRole(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "roleholder")
	grantTestRole(t, db, user.ID, RoleTechnician, true)

	ctx := context.Background()
	require.True(t, resolver.HasRole(ctx, user.ID, RoleTechnician))
	require.False(t, resolver.HasRole(ctx, user.ID, RoleAdmin))
	require.False(t, resolver.HasRole(ctx, "nonexistent-id", RoleTechnician))
}

func TestIsAdminFollowsSystemAdminPermission(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	ctx := context.Background()

	admin := createTestUser(t, db, "boss")
	grantTestRole(t, db, admin.ID, RoleAdmin, true)
	require.True(t, resolver.IsAdmin(ctx, admin.ID))

	tech := createTestUser(t, db, "wrench")
	grantTestRole(t, db, tech.ID, RoleTechnician, true)
	require.False(t, resolver.IsAdmin(ctx, tech.ID))

	// A custom role holding system:admin also satisfies IsAdmin.
	operator := createTestUser(t, db, "operator")
	role := createCustomRole(t, db, "OPERATOR", PermSystemAdmin)
	require.NoError(t, db.Create(&models.UserRole{
		UserID: operator.ID, RoleID: role.ID, AssignedBy: operator.ID, IsActive: true,
	}).Error)
	require.True(t, resolver.IsAdmin(ctx, operator.ID))
}
