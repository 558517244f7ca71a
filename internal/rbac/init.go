package rbac

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/pkg/logger"
	"github.com/ndtollman/mainstay/pkg/metrics"
)

// Initializer seeds the permission and role catalogs into storage. Every
// write is an upsert keyed by a natural key, so runs are idempotent and safe
// under concurrent startup of multiple instances.
//
// Seeding is additive only: rows no longer present in the catalog are never
// pruned. That is a contract, not an accident - it protects manually curated
// roles and grants from being silently revoked by a deployment.
type Initializer struct {
	db      *gorm.DB
	log     *zap.Logger
	catalog []Permission
	roles   []RoleSeed
}

// NewInitializer builds an initializer over the compiled-in catalogs.
func NewInitializer(db *gorm.DB) (*Initializer, error) {
	return NewInitializerWithCatalog(db, Catalog(), DefaultRoles())
}

// NewInitializerWithCatalog accepts explicit catalogs. Tests use it to seed
// reduced or extended catalogs; production code passes the defaults.
func NewInitializerWithCatalog(db *gorm.DB, catalog []Permission, roles []RoleSeed) (*Initializer, error) {
	if db == nil {
		return nil, errors.New("rbac: initializer requires a database handle")
	}
	return &Initializer{
		db:      db,
		log:     logger.WithComponent("rbac.init"),
		catalog: catalog,
		roles:   roles,
	}, nil
}

// Initialize seeds permissions, roles, and role-permission links.
func (i *Initializer) Initialize(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tx := i.db.WithContext(ctx)

	if err := i.seedPermissions(tx); err != nil {
		return err
	}

	permIDs, err := i.permissionIDsByName(tx)
	if err != nil {
		return err
	}

	if err := i.seedRoles(tx, permIDs); err != nil {
		return err
	}

	i.log.Info("rbac catalogs seeded",
		zap.Int("permissions", len(i.catalog)),
		zap.Int("roles", len(i.roles)))
	return nil
}

// InitializeRBAC is the script-facing wrapper: it logs failures and reports
// completion as a boolean instead of an error.
func (i *Initializer) InitializeRBAC(ctx context.Context) bool {
	if err := i.Initialize(ctx); err != nil {
		i.log.Error("rbac initialization failed", zap.Error(err))
		metrics.RBACSeedRuns.WithLabelValues("failure").Inc()
		return false
	}
	metrics.RBACSeedRuns.WithLabelValues("success").Inc()
	return true
}

func (i *Initializer) seedPermissions(tx *gorm.DB) error {
	for _, p := range i.catalog {
		record := models.Permission{
			Name:        p.String(),
			Resource:    p.Resource(),
			Action:      p.Action(),
			Description: p.Description(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"resource", "action", "description"}),
		}).Create(&record).Error
		if err != nil {
			return fmt.Errorf("rbac: seed permission %s: %w", p, err)
		}
	}
	return nil
}

func (i *Initializer) seedRoles(tx *gorm.DB, permIDs map[string]string) error {
	for _, seed := range i.roles {
		record := models.Role{
			Name:        seed.Name,
			Description: seed.Description,
			IsDefault:   seed.Name == DefaultRoleName,
			IsActive:    true,
		}
		// is_active is deliberately left out of the update set so a
		// soft-disabled role stays disabled across re-runs.
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "is_default"}),
		}).Create(&record).Error
		if err != nil {
			return fmt.Errorf("rbac: seed role %s: %w", seed.Name, err)
		}

		var role models.Role
		if err := tx.First(&role, "name = ?", seed.Name).Error; err != nil {
			return fmt.Errorf("rbac: reload role %s: %w", seed.Name, err)
		}

		for _, p := range seed.Permissions {
			permID, ok := permIDs[p.String()]
			if !ok {
				i.log.Warn("role references permission missing from storage",
					zap.String("role", seed.Name), zap.String("permission", p.String()))
				continue
			}
			link := models.RolePermission{RoleID: role.ID, PermissionID: permID}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
			if err != nil {
				return fmt.Errorf("rbac: link %s to %s: %w", seed.Name, p, err)
			}
		}
	}
	return nil
}

func (i *Initializer) permissionIDsByName(tx *gorm.DB) (map[string]string, error) {
	var rows []models.Permission
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("rbac: load permissions: %w", err)
	}
	ids := make(map[string]string, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}

// BackfillDefaultRole grants the default role to every user holding zero
// UserRole rows, returning the number of users granted. The grant is
// attributed to the user itself since no administrator actor exists during
// backfill. Per-user failures are collected rather than aborting the sweep.
func (i *Initializer) BackfillDefaultRole(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tx := i.db.WithContext(ctx)

	var role models.Role
	if err := tx.First(&role, "is_default = ?", true).Error; err != nil {
		return 0, fmt.Errorf("rbac: load default role: %w", err)
	}

	var userIDs []string
	err := tx.Model(&models.User{}).
		Where("NOT EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = users.id)").
		Pluck("id", &userIDs).Error
	if err != nil {
		return 0, fmt.Errorf("rbac: find users without roles: %w", err)
	}

	var errs error
	granted := 0
	for _, userID := range userIDs {
		link := models.UserRole{
			UserID:     userID,
			RoleID:     role.ID,
			AssignedBy: userID,
			IsActive:   true,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoNothing: true,
		}).Create(&link).Error
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rbac: backfill user %s: %w", userID, err))
			continue
		}
		granted++
	}

	if granted > 0 {
		i.log.Info("backfilled default role", zap.Int("users", granted), zap.String("role", role.Name))
	}
	return granted, errs
}
