package models

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleStudent      Role = "student"
	RoleInstructor   Role = "instructor"
	RoleCompanyAdmin Role = "company_admin"
	RoleSystemAdmin  Role = "system_admin"
)

var ErrUnknownRole = errors.New("unknown role")

// legacyRoles maps role names found in older tokens and rows to the canonical set.
var legacyRoles = map[string]Role{
	"estudiante":    RoleStudent,
	"profesor":      RoleInstructor,
	"administrador": RoleSystemAdmin,
	"admin":         RoleSystemAdmin,
	"teacher":       RoleInstructor,
}

func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch r := Role(s); r {
	case RoleStudent, RoleInstructor, RoleCompanyAdmin, RoleSystemAdmin:
		return r, nil
	}
	if r, ok := legacyRoles[s]; ok {
		return r, nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is one of the canonical roles; aliases are not valid here.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleCompanyAdmin, RoleSystemAdmin:
		return true
	}
	return false
}
