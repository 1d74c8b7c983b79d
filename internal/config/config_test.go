package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mood-media", cfg.Media.Bucket)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.RemoteEnabled())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.Origins())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "JWT_SECRET=from-file\nDATABASE_URL=postgres://u:p@localhost:5432/mood\nLOCAL_CACHE_IN_MEMORY=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set, so make
	// sure these start out unset and are restored afterwards.
	for _, k := range []string{"JWT_SECRET", "DATABASE_URL", "LOCAL_CACHE_IN_MEMORY"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.True(t, cfg.RemoteEnabled())
	assert.True(t, cfg.Cache.InMemory)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Port:  "8080",
		Auth:  AuthConfig{JWTSecret: "s"},
		Cache: CacheConfig{Path: "./data"},
		Media: MediaConfig{Bucket: "a/b"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Media.Bucket = "mood-media"
	assert.NoError(t, cfg.Validate())
}
