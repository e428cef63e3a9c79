package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Build selects the provider strategy named by s.Provider.
// A live provider without an API key resolves to the mock strategy.
func Build(ctx context.Context, s Settings, logger logrus.FieldLogger) (LLMClient, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	name := strings.ToLower(strings.TrimSpace(s.Provider))
	log := logger.WithFields(logrus.Fields{"component": "provider", "provider": name, "model": s.Model})

	if name == "" || name == "mock" {
		log.Info("using mock provider")
		return MockLLM{}, nil
	}
	if s.APIKey == "" {
		log.Warn("no api key configured, using mock provider")
		return NewFallbackClient(name, nil, logger), nil
	}

	var (
		primary LLMClient
		err     error
	)
	switch name {
	case "anthropic", "claude":
		primary, err = NewAnthropicLLM(s)
	case "openai", "gpt":
		primary, err = NewOpenAILLM(s)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if s.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		primary, err = NewOpenAILLM(s)
	case "gemini":
		primary, err = NewGeminiLLM(ctx, s)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", s.Provider)
	}
	if err != nil {
		return nil, err
	}
	log.Info("using live provider with mock fallback")
	return NewFallbackClient(name, primary, logger), nil
}

// Check performs one small round trip and reports whether the provider answered.
func Check(ctx context.Context, client LLMClient) error {
	if fc, ok := client.(*FallbackClient); ok {
		if fc.Primary == nil {
			return fmt.Errorf("no live provider configured")
		}
		client = fc.Primary
	}
	out, err := client.Complete(ctx, Prompt{Task: TaskPing, User: "Hello", MaxTokens: 10})
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return fmt.Errorf("provider returned an empty response")
	}
	return nil
}
