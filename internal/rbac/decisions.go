package rbac

import "context"

// Decision functions are pure read-only queries over the resolver. Every one
// of them degrades to false when resolution fails: an authorization check
// must never grant access because storage is unhealthy.

// HasPermission reports whether the user holds the permission.
func (r *Resolver) HasPermission(ctx context.Context, userID string, perm Permission) bool {
	return r.GetUserPermissions(ctx, userID).Has(perm)
}

// HasAnyPermission reports whether the user holds at least one of the
// permissions.
func (r *Resolver) HasAnyPermission(ctx context.Context, userID string, perms ...Permission) bool {
	return r.GetUserPermissions(ctx, userID).HasAny(perms...)
}

// HasAllPermissions reports whether the user holds every permission.
func (r *Resolver) HasAllPermissions(ctx context.Context, userID string, perms ...Permission) bool {
	return r.GetUserPermissions(ctx, userID).HasAll(perms...)
}

// HasRole reports whether the user holds the named role through an active
// link.
func (r *Resolver) HasRole(ctx context.Context, userID, roleName string) bool {
	for _, name := range r.GetUserRoles(ctx, userID) {
		if name == roleName {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the system:admin permission.
func (r *Resolver) IsAdmin(ctx context.Context, userID string) bool {
	return r.HasPermission(ctx, userID, PermSystemAdmin)
}
