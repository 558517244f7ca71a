package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndtollman/mainstay/internal/models"
)

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:migrations_test?mode=memory&cache=shared&_foreign_keys=1"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{
		"users", "roles", "permissions", "role_permissions", "user_roles",
		"sites", "buildings", "rooms", "assets", "work_orders",
	} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestAutoMigrateIsRepeatable(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:migrations_repeat_test?mode=memory&cache=shared&_foreign_keys=1"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))
}

func TestUserRolePairIsUnique(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:user_role_unique_test?mode=memory&cache=shared&_foreign_keys=1"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	user := models.User{Username: "u", Email: "u@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	role := models.Role{Name: "R", IsActive: true}
	require.NoError(t, db.Create(&role).Error)

	first := models.UserRole{UserID: user.ID, RoleID: role.ID, AssignedBy: user.ID, IsActive: true}
	require.NoError(t, db.Create(&first).Error)

	dup := models.UserRole{UserID: user.ID, RoleID: role.ID, AssignedBy: user.ID, IsActive: true}
	err = db.Create(&dup).Error
	require.Error(t, err)
	require.True(t, IsUniqueConstraintError(err))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}
