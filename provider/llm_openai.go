package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// DeepSeek and other OpenAI-compatible gateways go through here with a BaseURL.
type OpenAILLM struct {
	Settings Settings
	Opts     []option.RequestOption
}

func NewOpenAILLM(s Settings) (*OpenAILLM, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key or llm.api_key_env")
	}
	if s.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey), option.WithMaxRetries(0)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.TimeoutSeconds > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: time.Duration(s.TimeoutSeconds) * time.Second}))
	}
	return &OpenAILLM{Settings: s, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.Settings.Model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt.User)},
		MaxTokens:   openai.Int(int64(o.Settings.maxTokens(prompt))),
		Temperature: openai.Float(o.Settings.temperature()),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
