package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_DefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Get("")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
}

func TestGet_MissingSecretFails(t *testing.T) {
	_, err := Get("")

	assert.Error(t, err)
}

func TestGet_YamlFileWithEnvOverride(t *testing.T) {
	raw := `
server:
  addr: ":9090"
database:
  host: db.internal
  name: nettrack_prod
auth:
  jwt_secret: file-secret
  access_token_ttl: 15m
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Setenv("DB_HOST", "override.internal")

	cfg, err := Get(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	// env var wins over the file
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, "nettrack_prod", cfg.Database.Name)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}

	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.ConnectionString())
}
