package user

import "strings"

// Role is the marketplace role of a principal.
type Role string

const (
	RoleClient      Role = "CLIENT"
	RoleCreator     Role = "CREATOR"
	RoleAdmin       Role = "ADMIN"
	RoleMediaAgency Role = "MEDIA_AGENCY"
	RoleUnassigned  Role = "UNASSIGNED"
)

// Roles lists every known role.
var Roles = []Role{RoleClient, RoleCreator, RoleAdmin, RoleMediaAgency, RoleUnassigned}

// ParseRole maps a stored role string to a Role. Unknown values map to
// RoleUnassigned and ok is false.
func ParseRole(s string) (r Role, ok bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, true
	case RoleCreator:
		return RoleCreator, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleMediaAgency:
		return RoleMediaAgency, true
	case RoleUnassigned:
		return RoleUnassigned, true
	default:
		return RoleUnassigned, false
	}
}

// IsAdmin reports whether the role carries elevated privileges.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleClient, RoleCreator, RoleMediaAgency, RoleUnassigned:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
