package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndtollman/mainstay/internal/models"
)

func TestUserPermissionsUnionAcrossRoles(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "dual")
	grantTestRole(t, db, user.ID, RoleUser, true)
	grantTestRole(t, db, user.ID, RoleTechnician, true)

	set, err := resolver.UserPermissions(context.Background(), user.ID)
	require.NoError(t, err)

	// The union: every USER grant, every TECHNICIAN grant, no duplicates.
	want := make(map[Permission]struct{})
	for _, seed := range DefaultRoles() {
		if seed.Name == RoleUser || seed.Name == RoleTechnician {
			for _, p := range seed.Permissions {
				want[p] = struct{}{}
			}
		}
	}
	require.Len(t, set, len(want))
	for p := range want {
		require.True(t, set.Has(p), "missing %s", p)
	}
}

func TestUserPermissionsExcludesInactiveLinks(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "revoked")
	link := grantTestRole(t, db, user.ID, RoleTechnician, true)

	require.True(t, resolver.HasPermission(context.Background(), user.ID, PermAssetsWrite))

	require.NoError(t, db.Model(&models.UserRole{}).
		Where("id = ?", link.ID).
		Update("is_active", false).Error)

	set, err := resolver.UserPermissions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, set)
	require.False(t, resolver.HasPermission(context.Background(), user.ID, PermAssetsRead))
}

func TestUserPermissionsExcludesDisabledRoles(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "frozen")
	grantTestRole(t, db, user.ID, RoleTechnician, true)

	require.NoError(t, db.Model(&models.Role{}).
		Where("name = ?", RoleTechnician).
		Update("is_active", false).Error)

	set, err := resolver.UserPermissions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestUnknownUserResolvesToEmptyWithoutError(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	set, err := resolver.UserPermissions(context.Background(), "nonexistent-id")
	require.NoError(t, err)
	require.Empty(t, set)

	roles, err := resolver.UserRoles(context.Background(), "nonexistent-id")
	require.NoError(t, err)
	require.Empty(t, roles)

	require.False(t, resolver.HasPermission(context.Background(), "nonexistent-id", PermAssetsRead))
}

func TestStorageFailureIsDistinguishableButFailsClosed(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "stranded")
	grantTestRole(t, db, user.ID, RoleAdmin, true)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// The error-bearing API surfaces the failure...
	_, err = resolver.UserPermissions(context.Background(), user.ID)
	require.Error(t, err)

	// ...while the fail-closed surfaces collapse to deny.
	require.Empty(t, resolver.GetUserPermissions(context.Background(), user.ID))
	require.Empty(t, resolver.GetUserRoles(context.Background(), user.ID))
	require.False(t, resolver.HasPermission(context.Background(), user.ID, PermAssetsRead))
	require.False(t, resolver.IsAdmin(context.Background(), user.ID))
}

func TestUserRolesReturnsSortedActiveNames(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	user := createTestUser(t, db, "multi")
	grantTestRole(t, db, user.ID, RoleUser, true)
	grantTestRole(t, db, user.ID, RoleAdmin, true)
	grantTestRole(t, db, user.ID, RoleTechnician, false)

	roles, err := resolver.UserRoles(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{RoleAdmin, RoleUser}, roles)
}

func TestCapabilitiesSnapshot(t *testing.T) {
	db := setupSeededDB(t)
	resolver := mustResolver(t, db)

	admin := createTestUser(t, db, "capadmin")
	grantTestRole(t, db, admin.ID, RoleAdmin, true)

	caps := resolver.Capabilities(context.Background(), admin.ID)
	require.True(t, caps.IsAdmin)
	require.Contains(t, caps.Roles, RoleAdmin)
	require.True(t, caps.Can(PermAssetsDelete))
	require.Len(t, caps.Permissions, len(Catalog()))

	user := createTestUser(t, db, "capuser")
	grantTestRole(t, db, user.ID, RoleUser, true)

	caps = resolver.Capabilities(context.Background(), user.ID)
	require.False(t, caps.IsAdmin)
	require.True(t, caps.Can(PermAssetsRead))
	require.False(t, caps.Can(PermAssetsWrite))
}
