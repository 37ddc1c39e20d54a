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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.Inference.Provider)
	assert.Equal(t, 2048, cfg.Inference.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "PILL_REMINDER", cfg.Calendar.Marker)

	table, err := cfg.HourTable()
	require.NoError(t, err)
	assert.Nil(t, table)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INFERENCE_PROVIDER", "gemini")
	t.Setenv("INFERENCE_MODEL", "gemini-2.5-flash")
	t.Setenv("INFERENCE_TIMEOUT", "15s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")
	t.Setenv("SCHEDULE_TIMEZONE", "Asia/Tokyo")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.Inference.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Inference.Model)
	assert.Equal(t, 15*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_FileWithHourTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
inference:
  provider: openai
  api_key: secret
schedule:
  hours:
    "1": [9]
    "2": [21, 9]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Inference.APIKey)

	table, err := cfg.HourTable()
	require.NoError(t, err)
	assert.Equal(t, map[int][]int{1: {9}, 2: {9, 21}}, table)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("INFERENCE_PROVIDER", "carrier-pigeon")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	t.Setenv("SCHEDULE_TIMEZONE", "Mars/Olympus")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
