package rbac

import "sort"

// PermissionSet is a de-duplicated set of permission names.
type PermissionSet map[Permission]struct{}

// Has reports membership.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// HasAny reports whether at least one of the given permissions is held.
// An empty requirement list never matches.
func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// HasAll reports whether every given permission is held. An empty
// requirement list is vacuously satisfied.
func (s PermissionSet) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Names returns the sorted permission names.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for p := range s {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// Capabilities is the capability snapshot served to the web client. The UI
// caches it per session to decide which controls and routes to render; it is
// a rendering convenience, not a security boundary - the enforcement
// middleware remains authoritative.
type Capabilities struct {
	Permissions []string `json:"permissions"`
	Roles       []string `json:"roles"`
	IsAdmin     bool     `json:"is_admin"`
}

// Can reports whether the snapshot includes the permission.
func (c Capabilities) Can(p Permission) bool {
	for _, name := range c.Permissions {
		if name == string(p) {
			return true
		}
	}
	return false
}
