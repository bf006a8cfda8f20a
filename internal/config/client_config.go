package config

import (
	"strconv"
	"time"
)

const (
	baseURLVar = "API_BASE_URL"
	timeoutVar = "API_TIMEOUT_MS"
)

// Client reads the HTTP client settings from the environment.
type Client struct{}

var _ ClientConfig = Client{}

// GetBaseURL returns the base URL of the auth backend (e.g., "http://localhost:8000")
func (Client) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8000")
}

// GetRequestTimeout bounds every request issued by the client. Hung requests
// surface as a generic transport failure once the timeout elapses.
func (Client) GetRequestTimeout() time.Duration {
	ms := GetEnv(timeoutVar, "5000")
	v, err := strconv.Atoi(ms)
	if err != nil || v <= 0 {
		return 5 * time.Second
	}
	return time.Duration(v) * time.Millisecond
}
