package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Pazitos10/fastapi-auth-ds/token"
)

const refreshKey = "refresh"

// refreshTransport is the inbound hook of the interceptor chain. When a
// response comes back 401/403 it mints a new access token through the refresh
// endpoint (the refresh cookie rides along via the client's jar), rewrites
// the failed request's Authorization header, and replays it. The caller only
// ever sees the replay's outcome.
//
// Concurrent failures coalesce on a single in-flight refresh: late arrivals
// wait for the shared result instead of issuing their own call, so a burst of
// expired-credential failures produces exactly one refresh request.
type refreshTransport struct {
	next    http.RoundTripper
	tokens  *token.Holder
	baseURL *url.URL

	// client issues the refresh request itself. It points back at the full
	// chain; isRefreshRequest keeps that recursion from looping.
	client *http.Client

	group singleflight.Group

	// onSessionExpired is invoked with the server detail message when the
	// refresh itself fails and the session is torn down.
	onSessionExpired func(detail string)

	// onTokenRefreshed is invoked with the minted token after a successful
	// refresh, once per refresh call.
	onTokenRefreshed func(token string)
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	// A failing refresh is never retried
	if isRefreshRequest(req) {
		return resp, nil
	}

	v, refreshErr, shared := t.group.Do(refreshKey, func() (any, error) {
		return t.refreshToken(req.Context())
	})
	if refreshErr != nil {
		log.Warn().Err(refreshErr).
			Str("path", req.URL.Path).
			Msg("token refresh failed, session torn down")
		t.tokens.Clear()
		if t.onSessionExpired != nil {
			t.onSessionExpired(Detail(refreshErr, ""))
		}
		// Propagate the original rejection to the caller
		return resp, nil
	}

	newToken := v.(string)
	log.Debug().Bool("shared", shared).
		Str("path", req.URL.Path).
		Msg("access token refreshed, replaying request")

	// The original response is superseded by the replay
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry := req.Clone(req.Context())
	retry.Header.Set("Authorization", "Bearer "+newToken)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "replaying request body")
		}
		retry.Body = body
	}

	return t.next.RoundTrip(retry)
}

// refreshToken calls PUT /auth/token and stores the minted credential in the
// holder before returning it to the waiting requests.
func (t *refreshTransport) refreshToken(ctx context.Context) (string, error) {
	endpoint := t.baseURL.JoinPath(RouteToken).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, "building refresh request")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "refresh request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", decodeAPIError(resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decoding refresh response")
	}
	if body.AccessToken == "" {
		return "", errors.New("refresh response carried no access token")
	}

	t.tokens.Set(body.AccessToken)
	if t.onTokenRefreshed != nil {
		t.onTokenRefreshed(body.AccessToken)
	}
	return body.AccessToken, nil
}
