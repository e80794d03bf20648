package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, DefaultImageBaseURL, cfg.Storage.ImageBaseURL)
	assert.Equal(t, DefaultAnalysisPrompt, cfg.Analyzer.Prompt)
	assert.Equal(t, 0, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.False(t, cfg.IsDebug())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: ":9090"
  mode: debug
backend:
  base_url: "http://backend.local/"
  timeout_seconds: 30
cors:
  allowed_origins:
    - "http://a.example"
    - "http://b.example"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("NPTEL_APP_STORAGE_IMAGE_BASE_URL", "http://images.local/")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.True(t, cfg.IsDebug())
	assert.Equal(t, "http://backend.local", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "http://images.local", cfg.Storage.ImageBaseURL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_RejectsNegativeTimeout(t *testing.T) {
	t.Setenv("NPTEL_APP_BACKEND_TIMEOUT_SECONDS", "-1")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_seconds")
}
