package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicLLM sends one Messages API request per Complete call.
type AnthropicLLM struct {
	settings Settings
	client   anthropic.Client
}

func NewAnthropicLLM(s Settings) (*AnthropicLLM, error) {
	if s.APIKey == "" {
		return nil, errors.New("anthropic api key missing")
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		// no retries: a failure falls through to the mock path immediately
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.TimeoutSeconds > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: time.Duration(s.TimeoutSeconds) * time.Second}))
	}
	return &AnthropicLLM{settings: s, client: anthropic.NewClient(opts...)}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.settings.Model),
		MaxTokens:   int64(a.settings.maxTokens(prompt)),
		Temperature: anthropic.Float(a.settings.temperature()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("anthropic: response has no text blocks")
	}
	return strings.Join(parts, "\n"), nil
}
