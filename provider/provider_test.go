package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestMockIntentScenarios(t *testing.T) {
	cases := []struct {
		utterance string
		intent    string
		entity    string
		details   map[string]any
	}{
		{"Add a pricing section", "add", "section", map[string]any{"sectionType": "pricing"}},
		{"Change the primary color to blue", "change", "theme", map[string]any{"property": "primary", "value": "blue"}},
		{"Make the hero text more engaging", "improve", "content", map[string]any{"sectionType": "hero", "improvementType": "engagement"}},
		{"Please remove the testimonials", "delete", "section", map[string]any{"sectionType": "testimonials"}},
		{"How do I publish my site?", "question", "content", map[string]any{}},
		{"Add a new section", "add", "section", map[string]any{"sectionType": "features"}},
		{"Set the background color to light blue", "change", "theme", map[string]any{"property": "background", "value": "light blue"}},
		{"Change the hero heading to Welcome to Acme.", "change", "section", map[string]any{
			"sectionType": "hero", "property": "heading", "value": "Welcome to Acme", "heading": "Welcome to Acme",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			out, err := MockLLM{}.Complete(context.Background(), Prompt{Task: TaskIntent, Args: map[string]string{"utterance": tc.utterance}})
			require.NoError(t, err)
			var cmd mockCommand
			require.NoError(t, json.Unmarshal([]byte(out), &cmd))
			assert.Equal(t, tc.intent, cmd.Intent)
			assert.Equal(t, tc.entity, cmd.Entity)
			assert.Equal(t, tc.details, cmd.Details)
			assert.GreaterOrEqual(t, cmd.Confidence, 0.6)
		})
	}
}

func TestMockFeaturesPayloadIsFixed(t *testing.T) {
	out, err := MockLLM{}.Complete(context.Background(), Prompt{Task: TaskSectionContent, Args: map[string]string{"sectionType": "features"}})
	require.NoError(t, err)
	var c mockContent
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "Powerful Features", c.Heading)
	assert.Equal(t, []string{"Easy to use", "Scalable", "Secure"}, c.BulletPoints)
}

func TestMockIgnoresPromptWording(t *testing.T) {
	args := map[string]string{"utterance": "Add a team section"}
	a, err := MockLLM{}.Complete(context.Background(), Prompt{Task: TaskIntent, User: "one wording", Args: args})
	require.NoError(t, err)
	b, err := MockLLM{}.Complete(context.Background(), Prompt{Task: TaskIntent, User: "a different wording entirely", Args: args})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type failingLLM struct{ calls int }

func (f *failingLLM) Complete(context.Context, Prompt) (string, error) {
	f.calls++
	return "", errors.New("connection refused")
}

func TestFallbackUsesMockOnceWithoutRetry(t *testing.T) {
	primary := &failingLLM{}
	fc := NewFallbackClient("anthropic", primary, quietLogger())

	out, err := fc.Complete(context.Background(), Prompt{Task: TaskAnswer, User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "This is a simulated AI response.", out)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc := NewFallbackClient("anthropic", &failingLLM{}, quietLogger())
	_, err := fc.Complete(ctx, Prompt{Task: TaskAnswer})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnthropicLLMJoinsTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body["model"])
		assert.Equal(t, float64(2000), body["max_tokens"])
		assert.Equal(t, 0.7, body["temperature"])
		msgs, _ := body["messages"].([]any)
		if assert.Len(t, msgs, 1) {
			assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [
				{"type": "text", "text": "first"},
				{"type": "text", "text": "second"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 3, "output_tokens": 2}
		}`)
	}))
	defer srv.Close()

	llm, err := NewAnthropicLLM(Settings{APIKey: "test-key", Model: "claude-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	out, err := llm.Complete(context.Background(), Prompt{Task: TaskAnswer, User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", out)
}

func TestAnthropicLLMNon2xxFallsBackToMock(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	}))
	defer srv.Close()

	llm, err := NewAnthropicLLM(Settings{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	_, err = llm.Complete(context.Background(), Prompt{User: "x"})
	require.Error(t, err)

	hits.Store(0)
	fc := NewFallbackClient("anthropic", llm, quietLogger())
	out, err := fc.Complete(context.Background(), Prompt{Task: TaskSectionContent, Args: map[string]string{"sectionType": "features"}})
	require.NoError(t, err)
	assert.Contains(t, out, "Powerful Features")
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAILLMChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 0.0, body["temperature"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-test",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"ok\":true}"}}]
		}`)
	}))
	defer srv.Close()

	zero := 0.0
	llm, err := NewOpenAILLM(Settings{APIKey: "sk-test", Model: "gpt-test", BaseURL: srv.URL + "/v1/", Temperature: &zero})
	require.NoError(t, err)
	out, err := llm.Complete(context.Background(), Prompt{User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestBuildStrategies(t *testing.T) {
	ctx := context.Background()

	c, err := Build(ctx, Settings{Provider: "mock"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, MockLLM{}, c)

	c, err = Build(ctx, Settings{Provider: "anthropic"}, quietLogger())
	require.NoError(t, err)
	fc, ok := c.(*FallbackClient)
	require.True(t, ok)
	assert.Nil(t, fc.Primary)
	assert.Error(t, Check(ctx, c))

	c, err = Build(ctx, Settings{Provider: "anthropic", APIKey: "k"}, quietLogger())
	require.NoError(t, err)
	fc, ok = c.(*FallbackClient)
	require.True(t, ok)
	assert.IsType(t, &AnthropicLLM{}, fc.Primary)

	_, err = Build(ctx, Settings{Provider: "deepseek", APIKey: "k", Model: "deepseek-chat"}, quietLogger())
	assert.Error(t, err)

	_, err = Build(ctx, Settings{Provider: "llama", APIKey: "k"}, quietLogger())
	assert.Error(t, err)
}

func TestCheckMock(t *testing.T) {
	assert.NoError(t, Check(context.Background(), MockLLM{}))
}

func TestSettingsTemperature(t *testing.T) {
	assert.Equal(t, DefaultTemperature, Settings{}.temperature())
	zero, hot := 0.0, 1.2
	assert.Equal(t, 0.0, Settings{Temperature: &zero}.temperature())
	assert.Equal(t, 1.2, Settings{Temperature: &hot}.temperature())
}
