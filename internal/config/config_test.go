package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, 5*time.Second, cfg.StatementTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 32, cfg.WSSendBuffer)
	assert.False(t, cfg.DebugRoutes)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("WS_SEND_BUFFER=7\n"), 0o600))
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("WS_SEND_BUFFER", "")
	os.Unsetenv("WS_SEND_BUFFER")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WS_WRITE_TIMEOUT", "nonsense")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.WSSendBuffer)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.WSWriteTimeout)
}
