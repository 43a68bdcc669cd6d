package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "COMPLETION_PROVIDER", "CHAT_HISTORY_WINDOW", "CHAT_MAX_TOKENS",
	"MISTRAL_API_KEY", "MISTRAL_MODEL", "MISTRAL_BASE_URL",
	"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL", "ARK_BASE_URL", "ARK_REGION",
	"MEMORY_MAX_TURNS", "PERSONAS_FILE", "DEFAULT_PERSONA", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, ProviderMistral, cfg.AI.Provider)
	assert.Equal(t, 10, cfg.AI.HistoryWindow)
	assert.Equal(t, 300, cfg.AI.MaxTokens)
	assert.Equal(t, "open-mistral-7b", cfg.AI.Mistral.Model)
	assert.Equal(t, "https://api.mistral.ai/v1", cfg.AI.Mistral.BaseURL)
	assert.Equal(t, 0, cfg.Memory.MaxTurns)
	assert.Equal(t, "bastian", cfg.Personas.DefaultID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AI.Enabled())
	assert.Contains(t, cfg.AI.MissingReason(), "MISTRAL_API_KEY")
}

func TestLoadMistralEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("MISTRAL_API_KEY", " key ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "key", cfg.AI.Mistral.APIKey)
}

func TestLoadArkProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPLETION_PROVIDER", "ARK")
	t.Setenv("ARK_MODEL", "ep-123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderArk, cfg.AI.Provider)
	assert.False(t, cfg.AI.Enabled())

	t.Setenv("ARK_ACCESS_KEY", "ak")
	t.Setenv("ARK_SECRET_KEY", "sk")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoadServerAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	t.Setenv("PORT", "80 80")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"COMPLETION_PROVIDER": "openai",
		"CHAT_HISTORY_WINDOW": "0",
		"CHAT_MAX_TOKENS":     "many",
		"MEMORY_MAX_TURNS":    "-2",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMemoryAndPersonas(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEMORY_MAX_TURNS", "40")
	t.Setenv("PERSONAS_FILE", "/etc/personas.toml")
	t.Setenv("DEFAULT_PERSONA", "pirata")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Memory.MaxTurns)
	assert.Equal(t, "/etc/personas.toml", cfg.Personas.File)
	assert.Equal(t, "pirata", cfg.Personas.DefaultID)
}
