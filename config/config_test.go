package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SKYWINGS_API_BASE_URL", "")
	t.Setenv("SKYWINGS_HTTP_TIMEOUT", "")
	t.Setenv("SKYWINGS_ORIGIN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Empty(t, cfg.DefaultOrigin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SKYWINGS_API_BASE_URL", "https://api.example.com/")
	t.Setenv("SKYWINGS_HTTP_TIMEOUT", "3s")
	t.Setenv("SKYWINGS_ORIGIN", " jfk ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "JFK", cfg.DefaultOrigin)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SKYWINGS_HTTP_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SKYWINGS_HTTP_TIMEOUT", "")
	t.Setenv("SKYWINGS_API_BASE_URL", "localhost:8000")
	_, err = Load()
	assert.Error(t, err)
}
