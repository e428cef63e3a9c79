package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_site_pipeline/provider"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, provider.DefaultModel, cfg.LLM.Model)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.7, *cfg.LLM.Temperature)
	assert.Equal(t, 60, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, LogConfig{Level: "info", Format: "text"}, cfg.Log)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "llm": {"provider": "openai", "model": "gpt-4o-mini", "api_key_env": "MY_KEY", "max_tokens": 512},
  "server_addr": ":9000",
  "log": {"format": "json"}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
llm:
  provider: mock
  temperature: 0.2
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.2, *cfg.LLM.Temperature)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestZeroTemperatureIsKept(t *testing.T) {
	for _, path := range []string{
		writeFile(t, "config.yaml", "llm:\n  provider: mock\n  temperature: 0\n"),
		writeFile(t, "config.json", `{"llm": {"provider": "mock", "temperature": 0}}`),
	} {
		cfg, err := Load(path)
		require.NoError(t, err, path)
		require.NotNil(t, cfg.LLM.Temperature, path)
		assert.Equal(t, 0.0, *cfg.LLM.Temperature, path)
		require.NotNil(t, cfg.Settings().Temperature)
		assert.Equal(t, 0.0, *cfg.Settings().Temperature)
	}

	_, err := Load(writeFile(t, "hot.yaml", "llm:\n  temperature: 2.5\n"))
	assert.ErrorContains(t, err, "llm.temperature")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "bad.json", `{"llm":`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yml", "log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "log.format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolveAPIKey(t *testing.T) {
	env := map[string]string{"ANTHROPIC_API_KEY": " sk-ant ", "MY_KEY": "custom", "OPENAI_API_KEY": "sk-openai"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	cfg.ResolveAPIKey(lookup)
	assert.Equal(t, "sk-ant", cfg.LLM.APIKey)

	cfg = Default()
	cfg.LLM.APIKeyEnv = "MY_KEY"
	cfg.ResolveAPIKey(lookup)
	assert.Equal(t, "custom", cfg.LLM.APIKey)

	cfg = Default()
	cfg.LLM.Provider = "openai"
	cfg.ResolveAPIKey(lookup)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)

	cfg = Default()
	cfg.LLM.APIKey = "inline"
	cfg.ResolveAPIKey(lookup)
	assert.Equal(t, "inline", cfg.LLM.APIKey)

	cfg = Default()
	cfg.LLM.Provider = "gemini"
	cfg.ResolveAPIKey(lookup)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestSettings(t *testing.T) {
	cfg := Default()
	cfg.LLM.BaseURL = "http://localhost"
	s := cfg.Settings()
	temp := 0.7
	assert.Equal(t, provider.Settings{
		Provider:       "anthropic",
		Model:          provider.DefaultModel,
		BaseURL:        "http://localhost",
		MaxTokens:      2000,
		Temperature:    &temp,
		TimeoutSeconds: 60,
	}, s)

	// Settings hands out its own copy.
	*s.Temperature = 1.5
	assert.Equal(t, 0.7, *cfg.LLM.Temperature)
}
