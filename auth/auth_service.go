package auth

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Pazitos10/fastapi-auth-ds/internal/config"
	interrors "github.com/Pazitos10/fastapi-auth-ds/internal/errors"
	"github.com/Pazitos10/fastapi-auth-ds/session"
	"github.com/Pazitos10/fastapi-auth-ds/token"
	"github.com/Pazitos10/fastapi-auth-ds/transport"
	"github.com/Pazitos10/fastapi-auth-ds/users"
)

// User-facing fallback messages, used when the server reports no detail
const (
	loginFallbackMsg    = "Ocurrió un problema al iniciar sesión"
	registerFallbackMsg = "Ocurrió un problema al crear la cuenta"
	resetFallbackMsg    = "Ocurrió un problema al actualizar la contraseña"
	recoverFallbackMsg  = "Ocurrió un problema al recuperar la contraseña"
	sessionExpiredMsg   = "La sesión ha expirado"
)

// tokenResponse is the shape the login and validate endpoints answer with
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int    `json:"user_id"`
}

// Deps holds the collaborator dependencies for the Service
type Deps struct {
	API    *transport.Client // Configured request client
	Users  *users.Client     // Identity fetch client
	Store  *session.Store    // Session state, the single source of truth
	Tokens *token.Holder     // Mutable access credential cell
}

// Service implements the session operations: validate-on-load, login,
// logout, register and the password flows. Every operation is a sequenced
// network call plus a single store transition per outcome.
type Service struct {
	api    *transport.Client
	users  *users.Client
	store  *session.Store
	tokens *token.Holder
}

// NewService initializes a Service with required dependencies
func NewService(deps Deps) (*Service, error) {
	if deps.API == nil {
		return nil, errors.New("[NewService] API client is required")
	}
	if deps.Users == nil {
		return nil, errors.New("[NewService] Users client is required")
	}
	if deps.Store == nil {
		return nil, errors.New("[NewService] Store is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewService] Tokens holder is required")
	}

	return &Service{
		api:    deps.API,
		users:  deps.Users,
		store:  deps.Store,
		tokens: deps.Tokens,
	}, nil
}

// NewFromConfig wires a Service and all its collaborators from cfg. The
// transport's refresh hooks are connected back to the store: a successful
// background refresh keeps the mirrored credential current, a failed one
// demotes the session to signed-out with the server's message.
func NewFromConfig(cfg config.ClientConfig) (*Service, error) {
	store := session.NewStore()
	tokens := token.NewHolder()

	var svc *Service
	api, err := transport.New(cfg, tokens,
		transport.WithSessionExpiredHandler(func(detail string) {
			if svc != nil {
				svc.sessionExpired(detail)
			}
		}),
		transport.WithTokenRefreshedHandler(store.CredentialRefreshed),
	)
	if err != nil {
		return nil, err
	}

	userClient, err := users.NewClient(api)
	if err != nil {
		return nil, err
	}

	svc, err = NewService(Deps{API: api, Users: userClient, Store: store, Tokens: tokens})
	return svc, err
}

// Store exposes the session store for reactive consumers
func (s *Service) Store() *session.Store {
	return s.store
}

// CurrentUser returns the loaded identity, or nil
func (s *Service) CurrentUser() *users.User {
	return s.store.CurrentUser()
}

// IsAuthenticated reports whether an identity is loaded and validated
func (s *Service) IsAuthenticated() bool {
	return s.store.IsAuthenticated()
}

// State returns a snapshot of the session state
func (s *Service) State() session.State {
	return s.store.Snapshot()
}

// Validate runs the startup session check: it asks the backend to mint an
// access token from the ambient refresh cookie and, when that works, loads
// the identity. Failures are silent; this is a background check, not a user
// action. The loading flag is cleared whatever the outcome.
func (s *Service) Validate(ctx context.Context) error {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	var tok tokenResponse
	if err := s.api.Get(ctx, transport.RouteValidateUser, &tok); err != nil {
		log.Debug().Err(err).Msg("session validation failed")
		s.teardownSilently()
		return errors.Wrap(err, "[Validate] session validation")
	}

	user, err := s.fetchIdentity(ctx, tok)
	if err != nil {
		log.Debug().Err(err).Msg("identity fetch failed during validation")
		s.teardownSilently()
		return errors.Wrap(err, "[Validate] identity fetch")
	}

	s.store.LoginSucceeded(user, tok.AccessToken)
	return nil
}

// Login authenticates with username and password. Empty input is a local
// no-op failure with no network call. When an identity is already loaded the
// call short-circuits to success: an established session is not re-validated
// against new credentials.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return interrors.ErrMissingCredentials
	}

	s.store.BeginOperation()
	defer s.store.SetLoading(false)

	if s.store.CurrentUser() != nil {
		s.store.LoginSucceeded(s.store.CurrentUser(), s.tokens.Get())
		return nil
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok tokenResponse
	if err := s.api.PostForm(ctx, transport.RouteToken, form, &tok); err != nil {
		s.store.LoginFailed(transport.Detail(err, loginFallbackMsg))
		return errors.Wrap(err, "[Login] token request")
	}

	user, err := s.fetchIdentity(ctx, tok)
	if err != nil {
		s.store.LoginFailed(transport.Detail(err, loginFallbackMsg))
		return errors.Wrap(err, "[Login] identity fetch")
	}

	s.store.LoginSucceeded(user, tok.AccessToken)
	log.Info().Str("username", user.Username).Msg("logged in")
	return nil
}

// Logout invalidates the server session best-effort and always resets local
// state; client-side logout is authoritative for the session's view.
func (s *Service) Logout(ctx context.Context) error {
	err := s.api.Delete(ctx, transport.RouteToken, nil)
	if err != nil {
		log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}

	s.tokens.Clear()
	s.users.Invalidate()
	s.store.Reset()
	return errors.Wrap(err, "[Logout] token invalidation")
}

// Register creates a new account. A successful registration does not
// authenticate it; registration and login are decoupled.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	s.store.BeginOperation()
	defer s.store.SetLoading(false)

	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	if err := s.api.PostJSON(ctx, transport.RouteRegister, payload, nil); err != nil {
		s.store.LoginFailed(transport.Detail(err, registerFallbackMsg))
		return errors.Wrap(err, "[Register] register request")
	}

	s.tokens.Clear()
	s.store.RegisterSucceeded()
	return nil
}

// ResetPassword changes the password of the authenticated user. The current
// session's identity and credential are untouched either way.
func (s *Service) ResetPassword(ctx context.Context, currentPassword, newPassword string) error {
	s.store.BeginOperation()
	defer s.store.SetLoading(false)

	payload := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	var out struct {
		Msg string `json:"msg"`
	}
	if err := s.api.PostJSON(ctx, transport.RoutePasswordReset, payload, &out); err != nil {
		s.store.SetError(transport.Detail(err, resetFallbackMsg))
		return errors.Wrap(err, "[ResetPassword] reset request")
	}

	s.store.ClearError()
	return nil
}

// ForgotPassword asks the backend to send a password recovery email and
// returns the server's confirmation message.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", interrors.ErrMissingCredentials
	}

	var out struct {
		Msg string `json:"msg"`
		URL string `json:"url"`
	}
	payload := map[string]string{"email": email}
	if err := s.api.PostJSON(ctx, transport.RouteForgotPassword, payload, &out); err != nil {
		s.store.SetError(transport.Detail(err, recoverFallbackMsg))
		return "", errors.Wrap(err, "[ForgotPassword] request")
	}
	return out.Msg, nil
}

// RecoverPassword completes the recovery flow with the emailed token
func (s *Service) RecoverPassword(ctx context.Context, recoveryToken, newPassword string) (string, error) {
	if recoveryToken == "" || newPassword == "" {
		return "", interrors.ErrMissingCredentials
	}

	var out struct {
		Msg string `json:"msg"`
	}
	payload := map[string]string{"new_password": newPassword}
	err := s.api.PostJSON(ctx, transport.RoutePasswordRecovery, payload, &out,
		transport.WithQuery("token", recoveryToken))
	if err != nil {
		s.store.SetError(transport.Detail(err, recoverFallbackMsg))
		return "", errors.Wrap(err, "[RecoverPassword] request")
	}
	return out.Msg, nil
}

// fetchIdentity loads the user named by a token response, passing the fresh
// credential explicitly so the fetch cannot race the interceptors' view of
// the holder.
func (s *Service) fetchIdentity(ctx context.Context, tok tokenResponse) (*users.User, error) {
	s.tokens.Set(tok.AccessToken)
	return s.users.GetByID(ctx, tok.UserID, transport.WithBearer(tok.AccessToken))
}

// sessionExpired handles a failed refresh: credential is gone, the session
// is demoted to signed-out and the server's message (if any) is surfaced.
func (s *Service) sessionExpired(detail string) {
	if detail == "" {
		detail = sessionExpiredMsg
	}
	s.users.Invalidate()
	s.store.SessionExpired(detail)
}

// teardownSilently clears credential and identity without surfacing an error
func (s *Service) teardownSilently() {
	s.tokens.Clear()
	s.users.Invalidate()
	s.store.ResetSilently()
}
