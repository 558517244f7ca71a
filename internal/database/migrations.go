package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/models"
)

// AutoMigrate creates or updates the schema for all models. The explicit
// RolePermission join model is registered first so initializer upserts can
// target it directly.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := db.SetupJoinTable(&models.Role{}, "Permissions", &models.RolePermission{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Permission{}, "Roles", &models.RolePermission{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRole{},
		&models.Site{},
		&models.Building{},
		&models.Room{},
		&models.Asset{},
		&models.WorkOrder{},
	)
}
