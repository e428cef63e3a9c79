// Package provider talks to external text-generation providers.
package provider

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Task names the pipeline step a prompt belongs to. MockLLM dispatches on it.
type Task string

const (
	TaskIntent          Task = "intent"
	TaskAnswer          Task = "answer"
	TaskSectionContent  Task = "section_content"
	TaskImprove         Task = "improve"
	TaskVariations      Task = "variations"
	TaskSEOOptimize     Task = "seo_optimize"
	TaskMetaDescription Task = "meta_description"
	TaskTemplate        Task = "template"
	TaskTheme           Task = "theme"
	TaskSections        Task = "sections"
	TaskSiteSEO         Task = "site_seo"
	TaskPing            Task = "ping"
)

// Prompt is a single user message plus the structured inputs it was built from.
type Prompt struct {
	Task Task
	User string
	// Args mirrors the values interpolated into User.
	Args map[string]string
	// MaxTokens overrides Settings.MaxTokens when > 0.
	MaxTokens int
}

func (p Prompt) Arg(key string) string {
	if p.Args == nil {
		return ""
	}
	return p.Args[key]
}

// Settings 提供给具体实现的基础配置。
type Settings struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int

	// Temperature nil means DefaultTemperature; 0 is a valid setting.
	Temperature *float64
	// TimeoutSeconds bounds a single provider round trip.
	TimeoutSeconds int
}

const (
	DefaultModel       = "claude-sonnet-4-20250514"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
)

func (s Settings) maxTokens(p Prompt) int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	if s.MaxTokens > 0 {
		return s.MaxTokens
	}
	return DefaultMaxTokens
}

func (s Settings) temperature() float64 {
	if s.Temperature != nil {
		return *s.Temperature
	}
	return DefaultTemperature
}
