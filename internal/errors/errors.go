package errors

import (
	"errors"
	"fmt"
)

// Common error types for the auth client
var (
	// Credential errors
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAccessToken      = errors.New("no access token held")

	// Session errors
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Transport errors
	ErrRefreshFailed = errors.New("token refresh failed")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
