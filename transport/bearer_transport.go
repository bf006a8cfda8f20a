package transport

import (
	"net/http"

	"github.com/Pazitos10/fastapi-auth-ds/token"
)

// bearerTransport is the outbound hook of the interceptor chain. It attaches
// the currently held access token as a bearer Authorization header.
//
// The token is read from the holder at send time, so a credential swapped in
// by a refresh is picked up by every subsequent request without re-installing
// the hook. A header already set by the caller wins: that is how operations
// pass a freshly minted credential explicitly before the holder settles.
type bearerTransport struct {
	next   http.RoundTripper
	tokens *token.Holder
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" || isCredentialRequest(req) {
		return t.next.RoundTrip(req)
	}

	tok := t.tokens.Get()
	if tok == "" {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(clone)
}
