// Package rbac implements role-based access control: the permission and role
// catalogs, the idempotent initializer that seeds them into storage, the
// resolver that computes a user's effective permission set, and the decision
// functions used by the enforcement middleware and UI capability endpoint.
package rbac

import (
	"fmt"
	"strings"
)

// Permission is an atomic "resource:action" capability. Using a named string
// type keeps permission references checked at compile time; raw strings only
// appear at the storage boundary.
type Permission string

// The permission catalog. Names follow ^[a-z_]+:[a-z_]+$.
const (
	PermAssetsRead   Permission = "assets:read"
	PermAssetsWrite  Permission = "assets:write"
	PermAssetsDelete Permission = "assets:delete"

	PermWorkOrdersRead   Permission = "work_orders:read"
	PermWorkOrdersWrite  Permission = "work_orders:write"
	PermWorkOrdersDelete Permission = "work_orders:delete"
	PermWorkOrdersAssign Permission = "work_orders:assign"

	PermSitesRead  Permission = "sites:read"
	PermSitesWrite Permission = "sites:write"

	PermBuildingsRead  Permission = "buildings:read"
	PermBuildingsWrite Permission = "buildings:write"

	PermRoomsRead  Permission = "rooms:read"
	PermRoomsWrite Permission = "rooms:write"

	PermUsersRead   Permission = "users:read"
	PermUsersWrite  Permission = "users:write"
	PermUsersDelete Permission = "users:delete"

	PermRolesRead  Permission = "roles:read"
	PermRolesWrite Permission = "roles:write"

	PermReportsRead Permission = "reports:read"

	PermSystemAdmin    Permission = "system:admin"
	PermSystemSettings Permission = "system:settings"
)

var catalog = []Permission{
	PermAssetsRead,
	PermAssetsWrite,
	PermAssetsDelete,
	PermWorkOrdersRead,
	PermWorkOrdersWrite,
	PermWorkOrdersDelete,
	PermWorkOrdersAssign,
	PermSitesRead,
	PermSitesWrite,
	PermBuildingsRead,
	PermBuildingsWrite,
	PermRoomsRead,
	PermRoomsWrite,
	PermUsersRead,
	PermUsersWrite,
	PermUsersDelete,
	PermRolesRead,
	PermRolesWrite,
	PermReportsRead,
	PermSystemAdmin,
	PermSystemSettings,
}

var catalogIndex = func() map[Permission]struct{} {
	idx := make(map[Permission]struct{}, len(catalog))
	for _, p := range catalog {
		idx[p] = struct{}{}
	}
	return idx
}()

// Catalog returns the full permission catalog in definition order. The
// returned slice is a copy; the catalog itself is fixed at compile time.
func Catalog() []Permission {
	return append([]Permission(nil), catalog...)
}

// Valid reports whether the permission is part of the catalog.
func (p Permission) Valid() bool {
	_, ok := catalogIndex[p]
	return ok
}

func (p Permission) String() string {
	return string(p)
}

// Resource returns the substring before the first colon.
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	return resource
}

// Action returns the substring after the first colon.
func (p Permission) Action() string {
	_, action, _ := strings.Cut(string(p), ":")
	return action
}

// Description generates the human-readable description stored alongside the
// permission row.
func (p Permission) Description() string {
	return fmt.Sprintf("Allows %s access on %s", p.Action(), strings.ReplaceAll(p.Resource(), "_", " "))
}

// Role names seeded by the initializer.
const (
	RoleAdmin      = "ADMIN"
	RoleUser       = "USER"
	RoleTechnician = "TECHNICIAN"
)

// DefaultRoleName is the role granted to users holding no role links.
const DefaultRoleName = RoleUser

// RoleSeed describes a role and its default permission grants.
type RoleSeed struct {
	Name        string
	Description string
	Permissions []Permission
}

var readOnlyPermissions = []Permission{
	PermAssetsRead,
	PermWorkOrdersRead,
	PermSitesRead,
	PermBuildingsRead,
	PermRoomsRead,
	PermReportsRead,
}

// DefaultRoles returns the role catalog. ADMIN's grant list is computed from
// the full permission catalog, so a permission added to the catalog reaches
// ADMIN on the next initialization run without touching the role seed.
func DefaultRoles() []RoleSeed {
	technician := append(append([]Permission(nil), readOnlyPermissions...),
		PermAssetsWrite,
		PermWorkOrdersWrite,
		PermWorkOrdersAssign,
	)

	return []RoleSeed{
		{
			Name:        RoleAdmin,
			Description: "Full administrative access",
			Permissions: Catalog(),
		},
		{
			Name:        RoleUser,
			Description: "Read-only access to facilities data",
			Permissions: append([]Permission(nil), readOnlyPermissions...),
		},
		{
			Name:        RoleTechnician,
			Description: "Field technician: reads plus asset and work order updates",
			Permissions: technician,
		},
	}
}
