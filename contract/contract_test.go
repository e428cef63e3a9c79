package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":   `{"a":1}`,
		"```\n[1,2]\n```":           `[1,2]`,
		"  {\"a\":1}  ":             `{"a":1}`,
		"```JSON {\"a\":1}```":      `{"a":1}`,
		"\n\n```json\n{}\n```\n\n": `{}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, Strip(in), "input %q", in)
	}
}

func TestParseFencedObject(t *testing.T) {
	v, err := Parse("```json\n{\"heading\":\"Hi\",\"n\":2}\n```")
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hi", m["heading"])
	assert.Equal(t, float64(2), m["n"])
}

func TestParseIsIdempotent(t *testing.T) {
	text := "```json\n{\"a\":[1,2,{\"b\":\"c\"}],\"d\":null}\n```"
	first, err := Parse(text)
	require.NoError(t, err)
	second, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseRejectsProse(t *testing.T) {
	for _, in := range []string{"", "   ", "Sure! Here is your content.", "```json\n{\"a\":\n```", "{\"a\":1} trailing"} {
		_, err := Parse(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrMalformedContract))
		raw, ok := RawText(err)
		assert.True(t, ok)
		assert.Equal(t, in, raw)
	}
}

type strictPayload struct {
	Name string `json:"name"`
}

func (p *strictPayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestDecodeRunsValidator(t *testing.T) {
	var ok strictPayload
	require.NoError(t, Decode(`{"name":"x"}`, &ok))
	assert.Equal(t, "x", ok.Name)

	var bad strictPayload
	err := Decode(`{"name":""}`, &bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedContract)
	assert.Contains(t, err.Error(), "name is required")
}

func TestDecodeTypeMismatch(t *testing.T) {
	var out struct {
		Items []string `json:"items"`
	}
	err := Decode(`{"items":"not-a-list"}`, &out)
	assert.ErrorIs(t, err, ErrMalformedContract)
}
