package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ai_site_pipeline/generator"
	"ai_site_pipeline/site"
)

// ErrSectionNotFound is returned when an improvement names a section the site does not have.
var ErrSectionNotFound = errors.New("section not found")

var colorNames = map[string]string{
	"blue":   "#3B82F6",
	"red":    "#EF4444",
	"green":  "#10B981",
	"purple": "#8B5CF6",
	"orange": "#F59E0B",
	"pink":   "#EC4899",
	"yellow": "#EAB308",
	"indigo": "#6366F1",
	"teal":   "#14B8A6",
	"gray":   "#6B7280",
	"grey":   "#6B7280",
	"black":  "#000000",
	"white":  "#FFFFFF",
}

// NormalizeColor maps a color name to hex. Anything else is returned unchanged.
func NormalizeColor(value string) string {
	if hex, ok := colorNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return hex
	}
	return value
}

// Synthesizer maps a Command to at most one Action over a site snapshot.
type Synthesizer struct {
	content  *generator.ContentGenerator
	improver *generator.ContentImprover
	log      logrus.FieldLogger
}

func NewSynthesizer(content *generator.ContentGenerator, improver *generator.ContentImprover, logger logrus.FieldLogger) (*Synthesizer, error) {
	if content == nil || improver == nil {
		return nil, errors.New("content generator and improver are required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Synthesizer{content: content, improver: improver, log: logger.WithField("component", "synthesizer")}, nil
}

// Build returns nil without error when the command is below the confidence
// threshold or names an unsupported intent/entity pair.
//
// modify_section and delete_section are still emitted when no section matches;
// their Target is then empty.
func (s *Synthesizer) Build(ctx context.Context, cmd site.Command, snapshot site.Site) (*site.Action, error) {
	if !cmd.Actionable() {
		return nil, nil
	}
	switch cmd.Intent {
	case site.IntentAdd:
		if cmd.Entity == site.EntitySection {
			return s.addSection(ctx, cmd.Details, snapshot)
		}
	case site.IntentModify, site.IntentChange:
		switch cmd.Entity {
		case site.EntityTheme:
			return changeTheme(cmd.Details), nil
		case site.EntitySection:
			return modifySection(cmd.Details, snapshot), nil
		}
	case site.IntentDelete:
		if cmd.Entity == site.EntitySection {
			return deleteSection(cmd.Details, snapshot), nil
		}
	case site.IntentImprove:
		if cmd.Entity == site.EntityContent {
			return s.improveContent(ctx, cmd.Details, snapshot)
		}
	}
	s.log.WithFields(logrus.Fields{"intent": cmd.Intent, "entity": cmd.Entity}).Debug("no action for command")
	return nil, nil
}

func (s *Synthesizer) addSection(ctx context.Context, d site.Details, snapshot site.Site) (*site.Action, error) {
	sectionType := strings.ToLower(d.String("sectionType"))
	if sectionType == "" {
		sectionType = "features"
	}
	content, err := s.content.Generate(ctx, generator.ContentRequest{
		SectionType: sectionType,
		Context:     generator.BusinessContext{SiteName: snapshot.Name},
		Tone:        generator.ToneProfessional,
		Length:      generator.LengthMedium,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s content: %w", sectionType, err)
	}
	return &site.Action{
		Type: site.ActionAddSection,
		Data: site.AddSectionData{
			Type:    sectionType,
			Order:   len(snapshot.Sections),
			Content: content,
		},
		Description: fmt.Sprintf("Adding a %s section", sectionType),
	}, nil
}

func changeTheme(d site.Details) *site.Action {
	property, value := d.String("property"), d.String("value")
	if property == "" {
		return nil
	}
	return &site.Action{
		Type:        site.ActionChangeTheme,
		Data:        site.ThemeChangeData{Property: property, Value: NormalizeColor(value)},
		Description: fmt.Sprintf("Changing %s color to %s", property, value),
	}
}

func modifySection(d site.Details, snapshot site.Site) *site.Action {
	sectionType := d.String("sectionType")
	a := &site.Action{
		Type:        site.ActionModifySection,
		Data:        site.ModifySectionData{SectionType: sectionType, Details: d},
		Description: fmt.Sprintf("Modifying %s section", sectionType),
	}
	if sec, ok := snapshot.FindSection(sectionType); ok {
		a.Target = sec.ID
	}
	return a
}

func deleteSection(d site.Details, snapshot site.Site) *site.Action {
	sectionType := d.String("sectionType")
	a := &site.Action{
		Type:        site.ActionDeleteSection,
		Data:        site.DeleteSectionData{SectionType: sectionType},
		Description: fmt.Sprintf("Deleting %s section", sectionType),
	}
	if sec, ok := snapshot.FindSection(sectionType); ok {
		a.Target = sec.ID
	}
	return a
}

func (s *Synthesizer) improveContent(ctx context.Context, d site.Details, snapshot site.Site) (*site.Action, error) {
	sectionType := d.String("sectionType")
	sec, ok := snapshot.FindSection(sectionType)
	if !ok {
		return nil, fmt.Errorf("improve %q: %w", sectionType, ErrSectionNotFound)
	}
	kind := generator.ImprovementType(d.String("improvementType"))
	if kind == "" {
		kind = generator.ImproveEngagement
	}
	res, err := s.improver.Improve(ctx, generator.ImprovementRequest{
		OriginalContent: sec.Content.BodyText,
		ImprovementType: kind,
	})
	if err != nil {
		return nil, fmt.Errorf("improve %s content: %w", sectionType, err)
	}

	content := sec.Content.Clone()
	content.BodyText = res.ImprovedContent
	wc := generator.WordCount(content.BodyText)
	content.Metadata = &site.ContentMetadata{WordCount: wc, ReadingTime: generator.ReadingTime(wc)}

	return &site.Action{
		Type:   site.ActionUpdateContent,
		Target: sec.ID,
		Data: site.UpdateContentData{
			Content: content,
			Changes: res.Changes,
			Metrics: res.Metrics,
		},
		Description: fmt.Sprintf("Improving content in %s section", sectionType),
	}, nil
}
