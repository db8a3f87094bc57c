package services

import (
	"testing"
	"woodzire_server/structs/tables"

	"github.com/stretchr/testify/assert"
)

func TestHighestRole(t *testing.T) {
	grant := func(roles ...tables.Role) []tables.UserRole {
		out := make([]tables.UserRole, len(roles))
		for i, r := range roles {
			out[i].Role = r
		}
		return out
	}

	assert.Equal(t, tables.RoleUser, highestRole(nil))
	assert.Equal(t, tables.RoleModerator, highestRole(grant(tables.RoleUser, tables.RoleModerator)))
	assert.Equal(t, tables.RoleAdmin, highestRole(grant(tables.RoleModerator, tables.RoleAdmin, tables.RoleUser)))
	assert.Equal(t, tables.RoleUser, highestRole(grant("owner")), "unknown grants never outrank user")
}
