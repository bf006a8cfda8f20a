package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pazitos10/fastapi-auth-ds/session"
	"github.com/Pazitos10/fastapi-auth-ds/users"
)

func testUser() *users.User {
	return &users.User{ID: 7, Username: "ana", Email: "a@x.com", RoleID: 2, RoleName: users.RoleAlumno}
}

func TestStore_Defaults(t *testing.T) {
	s := session.NewStore()

	state := s.Snapshot()
	require.Nil(t, state.User)
	require.Empty(t, state.AccessToken)
	require.False(t, state.IsLoading)
	require.False(t, state.IsAuthenticated)
	require.Empty(t, state.Err)
}

func TestStore_LoginTransitions(t *testing.T) {
	s := session.NewStore()

	t.Run("success installs user and credential together", func(t *testing.T) {
		s.LoginSucceeded(testUser(), "t1")

		state := s.Snapshot()
		require.Equal(t, "ana", state.User.Username)
		require.Equal(t, "t1", state.AccessToken)
		require.True(t, state.IsAuthenticated)
		require.Empty(t, state.Err)
	})

	t.Run("failure clears identity but keeps credential", func(t *testing.T) {
		s.LoginFailed("contraseña incorrecta")

		state := s.Snapshot()
		require.Nil(t, state.User)
		require.False(t, state.IsAuthenticated)
		require.Equal(t, "t1", state.AccessToken)
		require.Equal(t, "contraseña incorrecta", state.Err)
	})
}

func TestStore_CredentialRefreshed(t *testing.T) {
	s := session.NewStore()
	s.LoginSucceeded(testUser(), "t1")

	s.CredentialRefreshed("t2")

	state := s.Snapshot()
	require.Equal(t, "t2", state.AccessToken)
	require.True(t, state.IsAuthenticated)
	require.Equal(t, "ana", state.User.Username)
	require.Empty(t, state.Err)
}

func TestStore_AuthenticatedImpliesUser(t *testing.T) {
	s := session.NewStore()

	s.LoginSucceeded(testUser(), "t1")
	s.SessionExpired("La sesión ha expirado")

	state := s.Snapshot()
	require.False(t, state.IsAuthenticated)
	require.Nil(t, state.User)
	require.Empty(t, state.AccessToken)
	require.Equal(t, "La sesión ha expirado", state.Err)
}

func TestStore_ResetSilentlyKeepsLoadingAndStaysQuiet(t *testing.T) {
	s := session.NewStore()
	s.LoginSucceeded(testUser(), "t1")

	s.SetLoading(true)
	s.ResetSilently()

	state := s.Snapshot()
	require.Nil(t, state.User)
	require.Empty(t, state.AccessToken)
	require.False(t, state.IsAuthenticated)
	require.Empty(t, state.Err)
	require.True(t, state.IsLoading)
}

func TestStore_RegisterSucceededDoesNotAuthenticate(t *testing.T) {
	s := session.NewStore()
	s.RegisterSucceeded()

	state := s.Snapshot()
	require.Nil(t, state.User)
	require.False(t, state.IsAuthenticated)
	require.Empty(t, state.AccessToken)
}

func TestStore_Subscribe(t *testing.T) {
	s := session.NewStore()

	var seen []session.State
	cancel := s.Subscribe(func(state session.State) {
		seen = append(seen, state)
	})

	s.SetLoading(true)
	s.LoginSucceeded(testUser(), "t1")

	require.Len(t, seen, 2)
	require.True(t, seen[0].IsLoading)
	require.True(t, seen[1].IsAuthenticated)

	cancel()
	s.Reset()
	require.Len(t, seen, 2)
}
