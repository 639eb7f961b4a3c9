package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDotEnv(t *testing.T, path string) {
	t.Helper()
	orig := dotEnvFile
	dotEnvFile = path
	t.Cleanup(func() { dotEnvFile = orig })
}

func TestParseEnv_OverridesOnlySetVariables(t *testing.T) {
	withDotEnv(t, filepath.Join(t.TempDir(), "absent.env"))

	t.Setenv("HTTP_ADDRESS", ":8081")
	t.Setenv("OTP_VALIDITY", "2m")
	t.Setenv("BREVO_API_KEY", "xkeysib-env")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":8081", c.EndpointAddrHTTP)
	assert.Equal(t, 2*time.Minute, c.OTPValidityDuration)
	assert.Equal(t, "xkeysib-env", c.BrevoAPIKey)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "slog", c.LogBackend)
}

func TestParseEnv_LoadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_BACKEND=memory\nSENDER_NAME=Budget Bot\n"), 0o600))
	withDotEnv(t, path)

	// godotenv.Load sets process variables; make sure they are restored.
	t.Setenv("STORAGE_BACKEND", "")
	require.NoError(t, os.Unsetenv("STORAGE_BACKEND"))
	t.Setenv("SENDER_NAME", "")
	require.NoError(t, os.Unsetenv("SENDER_NAME"))

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "memory", c.StorageBackend)
	assert.Equal(t, "Budget Bot", c.SenderName)
}

func TestParseEnv_ProcessEnvWinsOverDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_BACKEND=zerolog\n"), 0o600))
	withDotEnv(t, path)

	t.Setenv("LOG_BACKEND", "slog")

	var c Config
	parseEnv(&c)

	assert.Equal(t, "slog", c.LogBackend)
}

func TestParseEnv_InvalidDurationPanics(t *testing.T) {
	withDotEnv(t, filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("OTP_VALIDITY", "ten minutes")

	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}
