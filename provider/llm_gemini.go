package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiLLM calls Google's Gemini API through the genai SDK.
type GeminiLLM struct {
	settings Settings
	client   *genai.Client
}

func NewGeminiLLM(ctx context.Context, s Settings) (*GeminiLLM, error) {
	if s.APIKey == "" {
		return nil, errors.New("gemini api key missing")
	}
	if s.Model == "" {
		s.Model = "gemini-2.5-flash"
	}
	cfg := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	if s.TimeoutSeconds > 0 {
		cfg.HTTPClient = &http.Client{Timeout: time.Duration(s.TimeoutSeconds) * time.Second}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiLLM{settings: s, client: client}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.settings.Model, genai.Text(prompt.User), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.settings.temperature())),
		MaxOutputTokens: int32(g.settings.maxTokens(prompt)),
	})
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
