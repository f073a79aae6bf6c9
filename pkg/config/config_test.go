package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "babirusa.space", cfg.Session.ParentDomain)
	assert.Equal(t, "SKFX-TEACHER-AUTH", cfg.Session.CookieName)
	assert.NotEmpty(t, cfg.Session.TokenFile)
	assert.Equal(t, 5*time.Second, cfg.Notify.TTL)
	assert.Equal(t, 64, cfg.Notify.Backlog)
	assert.Equal(t, "./exports", cfg.Exports.Dir)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("BACKEND_URL", "https://api.school.example/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("WORKSPACE_PARENT_DOMAIN", "school.example")
	t.Setenv("ADMIN_PANEL_PASSWORD", "hunter2")
	t.Setenv("NOTIFY_TTL", "10s")
	t.Setenv("ENABLE_METRICS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	// Trailing slashes never reach URL assembly.
	assert.Equal(t, "https://api.school.example", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "school.example", cfg.Session.ParentDomain)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.Equal(t, 10*time.Second, cfg.Notify.TTL)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
}
