package rbac

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/pkg/logger"
)

// Resolver computes a user's effective roles and permissions by following
// active UserRole rows to active roles and their permission grants.
type Resolver struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewResolver constructs a resolver backed by the provided database.
func NewResolver(db *gorm.DB) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("rbac: resolver requires a database handle")
	}
	return &Resolver{db: db, log: logger.WithComponent("rbac")}, nil
}

// UserPermissions returns the de-duplicated permission set reachable through
// the user's active role links. An unknown user id resolves to an empty set,
// not an error; errors are reserved for storage failures so callers can tell
// "no permissions" apart from "resolution failed".
func (r *Resolver) UserPermissions(ctx context.Context, userID string) (PermissionSet, error) {
	links, err := r.activeRoleLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(PermissionSet)
	for _, link := range links {
		if link.Role.ID == "" { // role missing or soft-disabled
			continue
		}
		for _, perm := range link.Role.Permissions {
			set[Permission(perm.Name)] = struct{}{}
		}
	}
	return set, nil
}

// UserRoles returns the names of the user's active roles, sorted.
func (r *Resolver) UserRoles(ctx context.Context, userID string) ([]string, error) {
	links, err := r.activeRoleLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(links))
	for _, link := range links {
		if link.Role.ID == "" {
			continue
		}
		names = append(names, link.Role.Name)
	}
	sort.Strings(names)
	return names, nil
}

// GetUserPermissions is the fail-closed variant of UserPermissions: any
// resolution failure is logged and collapses to an empty set.
func (r *Resolver) GetUserPermissions(ctx context.Context, userID string) PermissionSet {
	set, err := r.UserPermissions(ctx, userID)
	if err != nil {
		r.log.Error("permission resolution failed, denying",
			zap.String("user_id", userID), zap.Error(err))
		return make(PermissionSet)
	}
	return set
}

// GetUserRoles is the fail-closed variant of UserRoles.
func (r *Resolver) GetUserRoles(ctx context.Context, userID string) []string {
	names, err := r.UserRoles(ctx, userID)
	if err != nil {
		r.log.Error("role resolution failed, denying",
			zap.String("user_id", userID), zap.Error(err))
		return []string{}
	}
	return names
}

// Capabilities builds the snapshot served to the web client.
func (r *Resolver) Capabilities(ctx context.Context, userID string) Capabilities {
	set := r.GetUserPermissions(ctx, userID)
	return Capabilities{
		Permissions: set.Names(),
		Roles:       r.GetUserRoles(ctx, userID),
		IsAdmin:     set.Has(PermSystemAdmin),
	}
}

func (r *Resolver) activeRoleLinks(ctx context.Context, userID string) ([]models.UserRole, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	var links []models.UserRole
	err := r.db.WithContext(ctx).
		Preload("Role", "is_active = ?", true).
		Preload("Role.Permissions").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("rbac: load role links for user %s: %w", userID, err)
	}
	return links, nil
}
