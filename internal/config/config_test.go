package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3020, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.HasRedis())
	assert.Empty(t, cfg.AdminToken)
	assert.Equal(t, "http://ip-api.com/json", cfg.Geo.Endpoint)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes())
	assert.Contains(t, cfg.DSN, "root@tcp(127.0.0.1:3306)/folio")
	assert.Contains(t, cfg.DSN, "parseTime=true")
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
env: Production
redis_url: redis://localhost:6379/0
admin_token: from-yaml
allowed_origins:
  - "https://example.com"
  - "  "
database:
  host: db.internal
  user: folio
  password: pw
  name: folio_prod
upload:
  max_size_mb: 10
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDev())
	assert.True(t, cfg.HasRedis())
	assert.Equal(t, "from-yaml", cfg.AdminToken)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DSN, "folio:pw@tcp(db.internal:3306)/folio_prod")
	assert.EqualValues(t, 10<<20, cfg.MaxUploadBytes())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("admin_token: yaml-token\nwebhook_secret: yaml-secret\n"), 0o600))

	t.Setenv(EnvAdminToken, "env-token")
	t.Setenv(EnvWebhookSecret, "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.AdminToken)
	assert.Equal(t, "env-secret", cfg.WebhookSecret)
}

func TestExplicitDSNWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
dsn: "user:pw@tcp(explicit:3306)/db?parseTime=true"
database:
  host: ignored
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "user:pw@tcp(explicit:3306)/db?parseTime=true", cfg.DSN)
}

func TestDSNValueCustomParams(t *testing.T) {
	db := DatabaseConfig{
		Host:    "localhost",
		Port:    3306,
		User:    "root",
		Name:    "folio",
		Charset: "utf8mb4",
		Loc:     "UTC",
		Params:  map[string]string{"timeout": "5s"},
	}
	dsn := db.DSNValue()
	assert.Contains(t, dsn, "timeout=5s")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "loc=UTC")
}
