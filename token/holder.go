package token

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/Pazitos10/fastapi-auth-ds/internal/errors"
)

// Holder is the shared mutable cell for the access credential. Interceptors
// read it at send time rather than capturing a value when they are installed,
// so a refreshed credential is observed by every in-flight consumer.
//
// The credential lives only in memory. The longer-lived refresh credential is
// an HTTP-only cookie managed by the client's cookie jar and is opaque here.
type Holder struct {
	mu      sync.RWMutex
	token   string
	subject string
	expiry  time.Time
}

// NewHolder returns an empty credential holder
func NewHolder() *Holder {
	return &Holder{}
}

// Set stores a freshly minted access token. When the token is a JWT its
// registered claims are inspected without signature verification to expose
// expiry and subject; verification belongs to the server, not this client.
// Opaque tokens are stored as-is.
func (h *Holder) Set(raw string) {
	var subject string
	var expiry time.Time

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err == nil {
		subject = claims.Subject
		if claims.ExpiresAt != nil {
			expiry = claims.ExpiresAt.Time
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = raw
	h.subject = subject
	h.expiry = expiry
}

// Get returns the currently held access token, or "" when none is held
func (h *Holder) Get() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Clear drops the held credential
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
	h.subject = ""
	h.expiry = time.Time{}
}

// Subject returns the JWT subject of the held token, when one was decodable
func (h *Holder) Subject() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.subject
}

// ExpiresWithin reports whether the held token expires within d. Tokens
// without a decodable expiry never report as expiring.
func (h *Holder) ExpiresWithin(d time.Duration) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == "" || h.expiry.IsZero() {
		return false
	}
	return time.Until(h.expiry) <= d
}

var _ oauth2.TokenSource = (*Holder)(nil)

// Token implements oauth2.TokenSource so the holder can back any
// oauth2-aware HTTP stack alongside this client's own interceptors.
func (h *Holder) Token() (*oauth2.Token, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == "" {
		return nil, errors.ErrNoAccessToken
	}
	return &oauth2.Token{
		AccessToken: h.token,
		TokenType:   "Bearer",
		Expiry:      h.expiry,
	}, nil
}
