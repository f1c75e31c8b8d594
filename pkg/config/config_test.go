package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DashboardTTL)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "session", cfg.HTTP.CookieName)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DASHBOARD_CACHE_TTL", "90")
	t.Setenv("AI_TIMEOUT", "2s")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("AI_PROVIDER", "OpenAI")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 90*time.Second, cfg.Cache.DashboardTTL)
	assert.Equal(t, 2*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.HTTP.CookieSecure)
	assert.Equal(t, "openai", cfg.AI.Provider)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "corto"
	cfg.App.Env = "production"
	assert.Error(t, cfg.Validate())

	cfg.App.Env = "development"
	cfg.AI.Provider = "gemini"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "fact", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/fact?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
