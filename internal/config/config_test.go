package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pazitos10/fastapi-auth-ds/internal/config"
)

func TestEnvDefaults(t *testing.T) {
	c := config.New()

	require.Equal(t, "http://localhost:8000", c.GetBaseURL())
	require.Equal(t, 5*time.Second, c.GetRequestTimeout())
	require.Equal(t, "Auth Client", c.GetAppName())
	require.Equal(t, "info", c.GetLogLevel())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT_MS", "2500")

	c := config.New()
	require.Equal(t, "https://api.example.com", c.GetBaseURL())
	require.Equal(t, 2500*time.Millisecond, c.GetRequestTimeout())
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authctl.yaml")
	content := "base_url: https://backend.example.com\ntimeout_ms: 3000\napp_name: Encuestas\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := config.FromFile(path)
	require.NoError(t, err)

	require.Equal(t, "https://backend.example.com", c.GetBaseURL())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, "Encuestas", c.GetAppName())

	t.Run("unset fields fall back to the environment", func(t *testing.T) {
		require.Equal(t, "info", c.GetLogLevel())
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
