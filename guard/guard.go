package guard

import "github.com/Pazitos10/fastapi-auth-ds/users"

// Named routes the guard redirects to
const (
	LoginRoute        = "/iniciar-sesion"
	UnauthorizedRoute = "/no-autorizado"
)

// Decision is the outcome of a guard check
type Decision int

const (
	// Allow renders the guarded subtree
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login route
	RedirectLogin
	// RedirectUnauthorized sends a role-mismatched user to the unauthorized route
	RedirectUnauthorized
)

// Target returns the route a redirect decision points at, or "" for Allow
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginRoute
	case RedirectUnauthorized:
		return UnauthorizedRoute
	default:
		return ""
	}
}

// Check gates a route subtree by role. Admin bypasses every allow-list. An
// absent role is not a redirect trigger here: deciding whether a visitor is
// authenticated at all belongs to RequireAuth, so the check defers and
// allows rendering.
func Check(role users.RoleType, allowedRoles []users.RoleType) Decision {
	if role == "" || role == users.RoleAdmin {
		return Allow
	}
	for _, allowed := range allowedRoles {
		if role == allowed {
			return Allow
		}
	}
	return RedirectUnauthorized
}

// RequireAuth is the authenticated-only wrapper: anyone without a validated
// session is sent to the login route.
func RequireAuth(authenticated bool) Decision {
	if !authenticated {
		return RedirectLogin
	}
	return Allow
}
