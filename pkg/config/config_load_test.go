package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  listenAddress: ":9090"
cors:
  allowedOrigins:
    - https://app.example.com
mailers:
  - name: default
    host: smtp.example.com
    port: 587
    username: mailer
    password: secret
platforms:
  shop:
    senderEmail: noreply@shop.example.com
    senderName: Shop
    mailer: default
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.ListenAddress)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
	require.Len(t, cfg.Mailers, 1)
	assert.Equal(t, "default", cfg.Mailers[0].Name)
	assert.Equal(t, 587, cfg.Mailers[0].Port)
	assert.Equal(t, "Shop", cfg.Platforms["shop"].SenderName)
}

func TestLoadExplicitMissingPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("PLATFORMS", `{"p1":{"senderEmail":"a@example.com","senderName":"A","mailer":"m"}}`)
	t.Setenv("API_KEYS", `{"p1":"k1"}`)
	t.Setenv("API_KEY", "shared-secret")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LISTEN_ADDRESS", ":7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent-default", "config.yaml"))
	// explicit missing path errors, so load without a path from a clean cwd
	assert.Error(t, err)

	cfg = Config{}
	cfg.applyEnv()
	assert.Equal(t, `{"p1":{"senderEmail":"a@example.com","senderName":"A","mailer":"m"}}`, cfg.PlatformsJSON)
	assert.Equal(t, `{"p1":"k1"}`, cfg.APIKeysJSON)
	assert.Equal(t, "shared-secret", cfg.SharedAPIKey)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, ":7070", cfg.Server.ListenAddress)
}

func TestDefaults(t *testing.T) {
	cfg := Config{}
	cfg.Defaults()
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, float64(20), cfg.RateLimit.Rate)
	assert.Equal(t, 50, cfg.RateLimit.Burst)
	assert.NotEmpty(t, cfg.Audit.Topic)
}

func TestPlatformSourcePrecedence(t *testing.T) {
	cfg := Config{
		Platforms:     map[string]Platform{"x": {}},
		PlatformsJSON: `{"y":{}}`,
	}
	assert.Equal(t, `{"y":{}}`, cfg.PlatformSource())

	cfg.PlatformsJSON = ""
	assert.Equal(t, cfg.Platforms, cfg.PlatformSource())

	empty := Config{}
	assert.Nil(t, empty.PlatformSource())
}
