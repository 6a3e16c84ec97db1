package domain

// Identity is the projection of a verified session token used by policy and
// service code. It carries claim data only; the live user record is not
// consulted after token verification.
type Identity struct {
	UserID string
	Email  string
	Role   Role
	Name   string
}

// IsAdmin reports whether the identity carries the administrator role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
