package site

import (
	"fmt"
	"strconv"
	"strings"
)

type Intent string

const (
	IntentAdd      Intent = "add"
	IntentModify   Intent = "modify"
	IntentDelete   Intent = "delete"
	IntentChange   Intent = "change"
	IntentImprove  Intent = "improve"
	IntentQuestion Intent = "question"
)

type Entity string

const (
	EntitySection Entity = "section"
	EntityTheme   Entity = "theme"
	EntityContent Entity = "content"
	EntityLayout  Entity = "layout"
	EntitySEO     Entity = "seo"
)

// MinActionConfidence is the threshold below which a command is never executed.
const MinActionConfidence = 0.6

// Details carries the free-form parameters of a command (sectionType, property, value, ...).
type Details map[string]any

// String returns details[key] as a trimmed string; numbers and bools are formatted.
func (d Details) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Command is the parsed form of a user utterance, before any mutation is decided.
type Command struct {
	Intent     Intent  `json:"intent"`
	Entity     Entity  `json:"entity"`
	Details    Details `json:"details"`
	Confidence float64 `json:"confidence"`
}

// Validate rejects commands outside the closed intent/entity vocabulary.
func (c *Command) Validate() error {
	switch c.Intent {
	case IntentAdd, IntentModify, IntentDelete, IntentChange, IntentImprove, IntentQuestion:
	default:
		return fmt.Errorf("unknown intent %q", c.Intent)
	}
	switch c.Entity {
	case EntitySection, EntityTheme, EntityContent, EntityLayout, EntitySEO:
	default:
		return fmt.Errorf("unknown entity %q", c.Entity)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", c.Confidence)
	}
	if c.Details == nil {
		c.Details = Details{}
	}
	return nil
}

// Actionable reports whether the command is confident enough to be executed.
func (c Command) Actionable() bool {
	return c.Intent != IntentQuestion && c.Confidence >= MinActionConfidence
}
