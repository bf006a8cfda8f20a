package transport

import "net/http"

// Backend endpoint paths consumed by the client
const (
	RouteToken            = "/auth/token"
	RouteValidateUser     = "/auth/validate-user"
	RouteRegister         = "/auth/register"
	RoutePasswordReset    = "/auth/password-reset"
	RouteForgotPassword   = "/auth/forgot-password"
	RoutePasswordRecovery = "/auth/password-recovery"
	RouteUsers            = "/users"
)

// isCredentialRequest reports whether req targets the login (POST) or refresh
// (PUT) operation on the token endpoint. Those two requests must never carry
// a bearer header: the credential is either absent or about to be replaced.
func isCredentialRequest(req *http.Request) bool {
	if req.URL.Path != RouteToken {
		return false
	}
	return req.Method == http.MethodPost || req.Method == http.MethodPut
}

// isRefreshRequest reports whether req is the refresh call itself. A failing
// refresh is never re-refreshed, which is what keeps the chain loop-free.
func isRefreshRequest(req *http.Request) bool {
	return req.Method == http.MethodPut && req.URL.Path == RouteToken
}
