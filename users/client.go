package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/Pazitos10/fastapi-auth-ds/transport"
)

// Client fetches identity snapshots from GET /users/{id}. The last fetched
// user is cached by id so repeated lookups for the same identity skip the
// network; the cache is dropped whenever the session is torn down.
type Client struct {
	api *transport.Client

	mu     sync.RWMutex
	cached *User
}

// NewClient returns a user fetch client on top of api
func NewClient(api *transport.Client) (*Client, error) {
	if api == nil {
		return nil, errors.New("[users.NewClient] transport client is required")
	}
	return &Client{api: api}, nil
}

// GetByID fetches the user with the given id. Request options are forwarded,
// so callers can pass an explicit bearer credential.
func (c *Client) GetByID(ctx context.Context, id int, opts ...transport.RequestOption) (*User, error) {
	if id == 0 {
		return nil, errors.New("[users.GetByID] id is required")
	}

	c.mu.RLock()
	if c.cached != nil && c.cached.ID == id {
		cached := *c.cached
		c.mu.RUnlock()
		return &cached, nil
	}
	c.mu.RUnlock()

	var user User
	path := fmt.Sprintf("%s/%d", transport.RouteUsers, id)
	if err := c.api.Get(ctx, path, &user, opts...); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = &user
	c.mu.Unlock()

	snapshot := user
	return &snapshot, nil
}

// Invalidate drops the cached user
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
