// Package config loads the application configuration from JSON or YAML.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ai_site_pipeline/provider"
)

// DefaultAPIKeyEnv is consulted when llm.api_key and llm.api_key_env are both empty.
const DefaultAPIKeyEnv = "ANTHROPIC_API_KEY"

// Config holds everything the composition root needs to wire the pipeline.
type Config struct {
	LLM        LLMConfig `json:"llm" yaml:"llm"`
	ServerAddr string    `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	Log        LogConfig `json:"log" yaml:"log"`
}

// LLMConfig 选择模型供应商；provider 为 mock 时不访问网络。
type LLMConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// Temperature is a pointer so that an explicit 0 survives defaulting.
	Temperature    *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero fields. Temperature is defaulted only when absent.
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "anthropic"
	}
	if c.LLM.Model == "" && strings.EqualFold(c.LLM.Provider, "anthropic") {
		c.LLM.Model = provider.DefaultModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = provider.DefaultMaxTokens
	}
	if c.LLM.Temperature == nil {
		t := provider.DefaultTemperature
		c.LLM.Temperature = &t
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Load reads path as YAML when it ends in .yaml/.yml and as JSON otherwise, then applies defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c Config) Validate() error {
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm.temperature %v out of range [0,2]", *t)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// ResolveAPIKey fills LLM.APIKey from the environment when it is not set inline.
// lookup is usually os.LookupEnv; it is passed in so that only main touches the environment.
func (c *Config) ResolveAPIKey(lookup func(string) (string, bool)) {
	if c.LLM.APIKey != "" || lookup == nil {
		return
	}
	name := c.LLM.APIKeyEnv
	if name == "" {
		name = defaultKeyEnv(c.LLM.Provider)
	}
	if v, ok := lookup(name); ok {
		c.LLM.APIKey = strings.TrimSpace(v)
	}
}

func defaultKeyEnv(p string) string {
	switch strings.ToLower(p) {
	case "openai":
		return "OPENAI_API_KEY"
	case "deepseek":
		return "DEEPSEEK_API_KEY"
	case "gemini", "google":
		return "GEMINI_API_KEY"
	default:
		return DefaultAPIKeyEnv
	}
}

// Settings converts the LLM section for provider.Build.
func (c Config) Settings() provider.Settings {
	var temp *float64
	if c.LLM.Temperature != nil {
		t := *c.LLM.Temperature
		temp = &t
	}
	return provider.Settings{
		Provider:       c.LLM.Provider,
		Model:          c.LLM.Model,
		APIKey:         c.LLM.APIKey,
		BaseURL:        c.LLM.BaseURL,
		MaxTokens:      c.LLM.MaxTokens,
		Temperature:    temp,
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}
