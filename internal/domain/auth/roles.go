package auth

import (
	"errors"
	"fmt"
	"slices"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var ErrInvalidRole = errors.New("invalid role")

// Roles lists every role an account can hold.
var Roles = []Role{RoleAdmin, RoleEmployee}

// ParseRole accepts only the exact lowercase role names.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q (want one of %v)", ErrInvalidRole, value, Roles)
	}
	return role, nil
}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

func (r Role) String() string {
	return string(r)
}

// DashboardPath is where a freshly verified session of this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleEmployee:
		return "/employee/dashboard"
	}
	return "/dashboard"
}
