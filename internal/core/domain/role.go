package domain

import "fmt"

// Role is the closed set of actors. Switches over Role list all three values and
// panic in the default branch, so a new role cannot be added silently.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleVoter      Role = "voter"
)

// Roles returns every role in privilege order, highest first.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleVoter}
}

// ParseRole converts untrusted input into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleVoter:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// HomePath is the dashboard a client should navigate to after login.
func (r Role) HomePath() string {
	switch r {
	case RoleSuperAdmin:
		return "/superadmin/dashboard"
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleVoter:
		return "/voter/dashboard"
	}
	panic(unknownRole(r))
}

// CanManageRole reports whether r may create users of role target or change
// their status. Superadmins manage everyone, admins manage voters only.
func (r Role) CanManageRole(target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return target == RoleVoter
	case RoleVoter:
		return false
	}
	panic(unknownRole(r))
}

// SeesUnpublishedResults reports whether r may read results before publication.
func (r Role) SeesUnpublishedResults() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleVoter:
		return false
	}
	panic(unknownRole(r))
}

// SeesInactiveCandidates reports whether r may list candidates that are not
// Active (pending approval, rejected, withdrawn).
func (r Role) SeesInactiveCandidates() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleVoter:
		return false
	}
	panic(unknownRole(r))
}

// SeesCancelledElections reports whether r may read elections that were
// cancelled, including their candidates.
func (r Role) SeesCancelledElections() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleVoter:
		return false
	}
	panic(unknownRole(r))
}

func unknownRole(r Role) string {
	return fmt.Sprintf("domain: unknown role %q", string(r))
}
