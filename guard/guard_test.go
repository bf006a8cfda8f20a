package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pazitos10/fastapi-auth-ds/guard"
	"github.com/Pazitos10/fastapi-auth-ds/users"
)

func TestCheck(t *testing.T) {
	allowed := []users.RoleType{users.RoleAlumno, users.RoleDocente}

	t.Run("admin bypasses every allow-list", func(t *testing.T) {
		require.Equal(t, guard.Allow, guard.Check(users.RoleAdmin, allowed))
		require.Equal(t, guard.Allow, guard.Check(users.RoleAdmin, nil))
	})

	t.Run("listed role is allowed", func(t *testing.T) {
		require.Equal(t, guard.Allow, guard.Check(users.RoleAlumno, allowed))
	})

	t.Run("unlisted role is redirected", func(t *testing.T) {
		decision := guard.Check(users.RoleSecretaria, allowed)
		require.Equal(t, guard.RedirectUnauthorized, decision)
		require.Equal(t, guard.UnauthorizedRoute, decision.Target())
	})

	t.Run("absent role defers and renders", func(t *testing.T) {
		require.Equal(t, guard.Allow, guard.Check("", allowed))
	})
}

func TestRequireAuth(t *testing.T) {
	require.Equal(t, guard.Allow, guard.RequireAuth(true))

	decision := guard.RequireAuth(false)
	require.Equal(t, guard.RedirectLogin, decision)
	require.Equal(t, guard.LoginRoute, decision.Target())
}

func TestCheckRoute(t *testing.T) {
	t.Run("role gated per route table", func(t *testing.T) {
		require.Equal(t, guard.Allow, guard.CheckRoute(users.RoleAlumno, "encuestas"))
		require.Equal(t, guard.RedirectUnauthorized, guard.CheckRoute(users.RoleAlumno, "reportes"))
		require.Equal(t, guard.Allow, guard.CheckRoute(users.RoleSecretariaAcademica, "reportes"))
	})

	t.Run("unknown routes are not gated", func(t *testing.T) {
		require.Equal(t, guard.Allow, guard.CheckRoute(users.RoleAlumno, "inexistente"))
	})
}
