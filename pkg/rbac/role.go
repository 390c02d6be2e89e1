package rbac

import (
	"slices"
	"strings"

	"reward-platform/pkg/errutil"
)

type Role string

const (
	RoleUser     Role = "USER"
	RoleOperator Role = "OPERATOR"
	RoleAuditor  Role = "AUDITOR"
	RoleAdmin    Role = "ADMIN"
)

var AllRoles = []Role{RoleUser, RoleOperator, RoleAuditor, RoleAdmin}

func (r Role) String() string {
	switch r {
	case RoleUser, RoleOperator, RoleAuditor, RoleAdmin:
		return string(r)
	default:
		return ""
	}
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.String() != ""
}

// ParseRoles rejects an empty list and any unknown role.
func ParseRoles(in []string) ([]Role, error) {
	if len(in) == 0 {
		return nil, errutil.BadRequest("roles must not be empty", nil)
	}
	out := make([]Role, 0, len(in))
	for _, s := range in {
		r, ok := ParseRole(s)
		if !ok {
			return nil, errutil.BadRequest("invalid role: "+s, nil)
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Roles   []Role
}

// Oversees reports whether p may read every user's records.
func (p Principal) Oversees() bool {
	return p.HasAny(oversight...)
}

func (p Principal) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

// Authorize allows p when required is empty or p holds at least one of the
// required roles.
func Authorize(p Principal, required []Role) error {
	if len(required) == 0 || p.HasAny(required...) {
		return nil
	}
	return errutil.Forbidden("Forbidden resource", nil)
}
