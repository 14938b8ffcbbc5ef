package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"MONGO_URI", "MONGODB_CONNECTION_STRING", "DB_NAME", "MONGODB_DATABASE_NAME",
		"REDIS_HOST", "REDIS_PORT", "REDIS_DB", "REDIS_ENABLED", "JWT_SECRET", "PORT",
		"CLOUDINARY_CLOUD_NAME", "RABBITMQ_URL", "LOG_LEVEL", "FLUENT_ENABLED", "FLUENT_PORT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  uri: mongodb://localhost:27017
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "RealEstateDB", cfg.Database.DBName)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "real-estate/properties", cfg.Cloudinary.Folder)
	assert.Equal(t, 10, cfg.Search.DefaultPageSize)
	assert.Equal(t, 100, cfg.Search.MaxPageSize)
	assert.Equal(t, 5*time.Minute, cfg.SearchCacheTTL())
	assert.Equal(t, 10*time.Second, cfg.DatabaseTimeout())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9000
database:
  uri: mongodb://from-file
  dbname: filedb
redis:
  enabled: false
`)
	t.Setenv("MONGODB_CONNECTION_STRING", "mongodb://from-env")
	t.Setenv("MONGODB_DATABASE_NAME", "envdb")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "mongodb://from-env", cfg.Database.URI)
	assert.Equal(t, "envdb", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
}

func TestLoadConfigMongoURIWinsOverAlias(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  uri: mongodb://file\n")
	t.Setenv("MONGO_URI", "mongodb://primary")
	t.Setenv("MONGODB_CONNECTION_STRING", "mongodb://alias")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://primary", cfg.Database.URI)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "missing uri", body: "server:\n  port: 1\n"},
		{name: "bad redis port env", body: "database:\n  uri: mongodb://x\n", env: map[string]string{"REDIS_PORT": "abc"}},
		{name: "redis port out of range", body: "database:\n  uri: mongodb://x\nredis:\n  port: 70000\n"},
		{name: "page size above max", body: "database:\n  uri: mongodb://x\nsearch:\n  default_page_size: 50\n  max_page_size: 20\n"},
		{name: "invalid yaml", body: "database: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
