package permission

// Role is the name of a role as stored and as carried by a user session.
type Role string

const (
	// RoleSuperAdmin bypasses stored permission sets entirely.
	RoleSuperAdmin Role = "Super Admin"
	// RoleAdmin gets the legacy default set until a set is stored for it.
	RoleAdmin Role = "Admin"
)

// Policy decides which role names are privileged.
type Policy struct {
	// AdminIsSuperAdmin makes "Admin" behave exactly like "Super Admin".
	// When false, "Admin" is only privileged through the legacy fallback set.
	AdminIsSuperAdmin bool
}

// IsSuperAdmin reports whether role is always fully authorized.
func (p Policy) IsSuperAdmin(role Role) bool {
	if role == RoleSuperAdmin {
		return true
	}

	return p.AdminIsSuperAdmin && role == RoleAdmin
}

// IsLegacyAdmin reports whether role falls back to the legacy Admin set when
// no set is stored for it.
func (p Policy) IsLegacyAdmin(role Role) bool {
	return role == RoleAdmin && !p.AdminIsSuperAdmin
}

// IsBuiltIn reports whether role is one of the built-in privileged roles.
// Built-in roles cannot be deleted.
func IsBuiltIn(role Role) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// Fallback returns the set a role receives when nothing is stored for it.
func (p Policy) Fallback(r *Registry, role Role) Set {
	switch {
	case p.IsSuperAdmin(role):
		return r.Full()
	case p.IsLegacyAdmin(role):
		return r.LegacyAdmin()
	default:
		return r.Empty()
	}
}
