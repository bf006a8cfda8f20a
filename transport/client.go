package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Pazitos10/fastapi-auth-ds/internal/config"
	"github.com/Pazitos10/fastapi-auth-ds/token"
)

// Client is the configured request client shared by every session operation:
// base URL, bounded timeout, a cookie jar so the HTTP-only refresh cookie
// flows on every call, and the two interceptor hooks layered on transport.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures optional Client behaviour
type Option func(*clientSettings)

type clientSettings struct {
	transport        http.RoundTripper
	onSessionExpired func(detail string)
	onTokenRefreshed func(token string)
}

// WithTransport replaces the innermost RoundTripper (primarily for testing)
func WithTransport(rt http.RoundTripper) Option {
	return func(s *clientSettings) {
		s.transport = rt
	}
}

// WithSessionExpiredHandler registers a callback fired when a token refresh
// fails and the session is torn down. The detail argument carries the server
// message, when one was provided.
func WithSessionExpiredHandler(fn func(detail string)) Option {
	return func(s *clientSettings) {
		s.onSessionExpired = fn
	}
}

// WithTokenRefreshedHandler registers a callback fired with the minted token
// after a successful background refresh, so state mirrors of the credential
// can follow the holder.
func WithTokenRefreshedHandler(fn func(token string)) Option {
	return func(s *clientSettings) {
		s.onTokenRefreshed = fn
	}
}

// New builds the client wrapper around cfg's base URL and timeout, wiring the
// bearer and refresh hooks around holder.
func New(cfg config.ClientConfig, holder *token.Holder, opts ...Option) (*Client, error) {
	if holder == nil {
		return nil, errors.New("[transport.New] token holder is required")
	}

	base, err := url.Parse(cfg.GetBaseURL())
	if err != nil {
		return nil, errors.Wrap(err, "[transport.New] parsing base URL")
	}

	settings := &clientSettings{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(settings)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[transport.New] creating cookie jar")
	}

	refresh := &refreshTransport{
		next:             &bearerTransport{next: settings.transport, tokens: holder},
		tokens:           holder,
		baseURL:          base,
		onSessionExpired: settings.onSessionExpired,
		onTokenRefreshed: settings.onTokenRefreshed,
	}
	httpClient := &http.Client{
		Timeout:   cfg.GetRequestTimeout(),
		Jar:       jar,
		Transport: refresh,
	}
	// The refresh call rides the same client so the jar's cookie flows
	refresh.client = httpClient

	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// RequestOption mutates a single outgoing request
type RequestOption func(*http.Request)

// WithBearer sets an explicit bearer credential on one request, overriding
// whatever the holder currently carries. Operations use this right after a
// token is minted, before interceptor state has settled.
func WithBearer(tok string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// WithQuery adds a query parameter to the request URL
func WithQuery(key, value string) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Set(key, value)
		req.URL.RawQuery = q.Encode()
	}
}

// Get issues a GET and decodes the JSON response into out when out != nil
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, opts...)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostJSON issues a POST with a JSON body
func (c *Client) PostJSON(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding request body")
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload), opts...)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// PostForm issues a POST with form-encoded data, the shape the backend's
// login endpoint expects.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any, opts ...RequestOption) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), opts...)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// Put issues a bodyless PUT
func (c *Client) Put(ctx context.Context, path string, out any, opts ...RequestOption) error {
	req, err := c.newRequest(ctx, http.MethodPut, path, nil, opts...)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, opts...)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, opts ...RequestOption) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, path)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	for _, opt := range opts {
		opt(req)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", req.Method, req.URL.Path)
	}
	return nil
}
