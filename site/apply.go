package site

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrTargetNotFound = errors.New("target section not found")

var fontRoles = map[string]bool{"heading": true, "body": true}

// Apply returns a copy of s with a applied. s itself is never modified.
//
// Missing targets: modify_section creates the section, delete_section is a no-op,
// update_content fails with ErrTargetNotFound.
func Apply(s Site, a Action) (Site, error) {
	out := s.Clone()
	switch d := a.Data.(type) {
	case AddSectionData:
		out.Sections = append(out.Sections, Section{
			ID:      newSectionID(d.Type),
			Type:    d.Type,
			Order:   len(out.Sections),
			Content: d.Content.Clone(),
		})
	case ThemeChangeData:
		if d.Property == "" {
			return s, fmt.Errorf("change_theme: empty property")
		}
		if fontRoles[strings.ToLower(d.Property)] {
			if out.Theme.Fonts == nil {
				out.Theme.Fonts = map[string]string{}
			}
			out.Theme.Fonts[strings.ToLower(d.Property)] = d.Value
		} else {
			if out.Theme.Colors == nil {
				out.Theme.Colors = map[string]string{}
			}
			out.Theme.Colors[d.Property] = d.Value
		}
	case ModifySectionData:
		idx := indexOf(out.Sections, a.Target)
		if idx < 0 {
			sec := Section{
				ID:    newSectionID(d.SectionType),
				Type:  d.SectionType,
				Order: len(out.Sections),
			}
			mergeDetails(&sec.Content, d.Details)
			out.Sections = append(out.Sections, sec)
			break
		}
		mergeDetails(&out.Sections[idx].Content, d.Details)
	case DeleteSectionData:
		idx := indexOf(out.Sections, a.Target)
		if idx < 0 {
			return out, nil
		}
		out.Sections = append(out.Sections[:idx], out.Sections[idx+1:]...)
		renumber(out.Sections)
	case UpdateContentData:
		idx := indexOf(out.Sections, a.Target)
		if idx < 0 {
			return s, fmt.Errorf("update_content %q: %w", a.Target, ErrTargetNotFound)
		}
		out.Sections[idx].Content = d.Content.Clone()
	default:
		return s, fmt.Errorf("unsupported action type %q", a.Type)
	}
	return out, nil
}

func indexOf(sections []Section, id string) int {
	if id == "" {
		return -1
	}
	for i, sec := range sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func renumber(sections []Section) {
	for i := range sections {
		sections[i].Order = i
	}
}

// mergeDetails copies recognised content fields from details into c.
// Metadata is recomputed whenever the body text changes.
func mergeDetails(c *Content, details Details) {
	body := c.BodyText
	if v := details.String("heading"); v != "" {
		c.Heading = v
	}
	if v := details.String("subheading"); v != "" {
		c.Subheading = v
	}
	if v := details.String("bodyText"); v != "" {
		c.BodyText = v
	}
	if v := details.String("ctaText"); v != "" {
		c.CTAText = v
	}
	// "value" is what the intent prompt fills for "change the hero text to ..."
	prop := details.String("property")
	if strings.EqualFold(prop, "text") || (prop == "" && c.BodyText == "") {
		if v := details.String("value"); v != "" {
			c.BodyText = v
		}
	}
	if c.BodyText != body {
		c.Metadata = metadataFor(c.BodyText)
	}
}

// metadataFor counts words and reading minutes at 200 words per minute, rounded up.
func metadataFor(body string) *ContentMetadata {
	wc := len(strings.Fields(body))
	return &ContentMetadata{WordCount: wc, ReadingTime: (wc + 199) / 200}
}

func newSectionID(sectionType string) string {
	prefix := strings.ToLower(strings.TrimSpace(sectionType))
	if prefix == "" {
		prefix = "section"
	}
	return prefix + "-" + uuid.NewString()[:8]
}
