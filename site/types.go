// Package site holds the document model the pipeline reads and the mutations it emits.
package site

import (
	"strings"
	"time"
)

// Site is the caller-owned document. The pipeline only ever sees snapshots.
type Site struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string    `json:"name" yaml:"name"`
	Template string    `json:"template,omitempty" yaml:"template,omitempty"`
	Theme    Theme     `json:"theme" yaml:"theme"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section is one block of a page. Order is dense and zero-based.
type Section struct {
	ID      string  `json:"id" yaml:"id"`
	Type    string  `json:"type" yaml:"type"`
	Order   int     `json:"order" yaml:"order"`
	Content Content `json:"content" yaml:"content"`
}

// Content is the text payload of a section.
type Content struct {
	Heading      string           `json:"heading" yaml:"heading"`
	Subheading   string           `json:"subheading,omitempty" yaml:"subheading,omitempty"`
	BodyText     string           `json:"bodyText" yaml:"bodyText"`
	BulletPoints []string         `json:"bulletPoints,omitempty" yaml:"bulletPoints,omitempty"`
	CTAText      string           `json:"ctaText,omitempty" yaml:"ctaText,omitempty"`
	Metadata     *ContentMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type ContentMetadata struct {
	WordCount   int `json:"wordCount" yaml:"wordCount"`
	ReadingTime int `json:"readingTime" yaml:"readingTime"`
}

// Theme maps color names to hex values and font roles to families.
type Theme struct {
	Colors map[string]string `json:"colors" yaml:"colors"`
	Fonts  map[string]string `json:"fonts" yaml:"fonts"`
}

// QualityMetrics are heuristic scores, each within [0,100].
type QualityMetrics struct {
	ReadabilityScore int `json:"readabilityScore"`
	SEOScore         int `json:"seoScore"`
	EngagementScore  int `json:"engagementScore"`
}

type TemplatePreview struct {
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
}

type TemplateSuggestion struct {
	TemplateID string          `json:"templateId"`
	Score      int             `json:"score"`
	Reason     string          `json:"reason"`
	Preview    TemplatePreview `json:"preview"`
}

type SEOMeta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is append-only; a turn is never changed after it is recorded.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Action    *Action   `json:"action,omitempty"`
}

// FindSection returns the first section whose type matches sectionType, ignoring case.
func (s Site) FindSection(sectionType string) (Section, bool) {
	if strings.TrimSpace(sectionType) == "" {
		return Section{}, false
	}
	for _, sec := range s.Sections {
		if strings.EqualFold(sec.Type, sectionType) {
			return sec, true
		}
	}
	return Section{}, false
}

// SectionTypes lists section types in document order.
func (s Site) SectionTypes() []string {
	out := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		out = append(out, sec.Type)
	}
	return out
}

// Clone returns a deep copy so callers can mutate without touching the snapshot.
func (s Site) Clone() Site {
	out := s
	out.Theme = s.Theme.Clone()
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for i, sec := range s.Sections {
			sec.Content = sec.Content.Clone()
			out.Sections[i] = sec
		}
	}
	return out
}

func (t Theme) Clone() Theme {
	return Theme{Colors: cloneMap(t.Colors), Fonts: cloneMap(t.Fonts)}
}

func (c Content) Clone() Content {
	out := c
	if c.BulletPoints != nil {
		out.BulletPoints = append([]string(nil), c.BulletPoints...)
	}
	if c.Metadata != nil {
		m := *c.Metadata
		out.Metadata = &m
	}
	return out
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
