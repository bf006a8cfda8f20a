package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pazitos10/fastapi-auth-ds/users"
)

func TestUser_Role(t *testing.T) {
	t.Run("role name wins when present", func(t *testing.T) {
		u := &users.User{ID: 7, RoleID: 2, RoleName: users.RoleAlumno}
		require.Equal(t, users.RoleAlumno, u.Role())
	})

	t.Run("admin role id is recognised without a name", func(t *testing.T) {
		u := &users.User{ID: 1, RoleID: 1}
		require.Equal(t, users.RoleAdmin, u.Role())
		require.True(t, u.IsAdmin())
	})

	t.Run("unknown role id has no name", func(t *testing.T) {
		u := &users.User{ID: 7, RoleID: 2}
		require.Empty(t, u.Role())
		require.False(t, u.IsAdmin())
	})

	t.Run("nil user", func(t *testing.T) {
		var u *users.User
		require.Empty(t, u.Role())
		require.False(t, u.IsAdmin())
	})
}
