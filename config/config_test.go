package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("AI_SERVICE_URL", "https://ai.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageFirestore, cfg.StorageBackend)
	assert.Equal(t, "https://ai.example.com", cfg.AIServiceURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, 720, cfg.JWTRememberHours)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StorageBackend: StorageFirestore, JWTSecret: "s", JWTExpiryHours: 1, JWTRememberHours: 1}
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "PROJECT_ID", cfgErr.Field)

	cfg.StorageBackend = StorageMemory
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.AIEnabled())

	cfg.StorageBackend = "postgres"
	assert.Error(t, cfg.Validate())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")
	t.Setenv("DEBUG", "maybe")

	cfg := Load()

	assert.Equal(t, 30, cfg.HTTPTimeoutSeconds)
	assert.False(t, cfg.Debug)
}
