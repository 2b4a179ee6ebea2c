package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"student", RoleStudent},
		{"instructor", RoleInstructor},
		{"company_admin", RoleCompanyAdmin},
		{"system_admin", RoleSystemAdmin},
		{"estudiante", RoleStudent},
		{"profesor", RoleInstructor},
		{"administrador", RoleSystemAdmin},
		{"  Profesor ", RoleInstructor},
		{"admin", RoleSystemAdmin},
		{"teacher", RoleInstructor},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoleUnknown(t *testing.T) {
	_, err := ParseRole("janitor")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCompanyAdmin.Valid())
	assert.False(t, Role("profesor").Valid())
	assert.False(t, Role("").Valid())
}
