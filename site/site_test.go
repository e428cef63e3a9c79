package site

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Site {
	return Site{
		Name:  "Acme",
		Theme: Theme{Colors: map[string]string{"primary": "#000000"}, Fonts: map[string]string{"body": "Inter"}},
		Sections: []Section{
			{ID: "hero-0", Type: "hero", Order: 0, Content: Content{Heading: "Welcome", BulletPoints: []string{"a"}}},
			{ID: "features-1", Type: "Features", Order: 1, Content: Content{Heading: "Features", Metadata: &ContentMetadata{WordCount: 1}}},
			{ID: "contact-2", Type: "contact", Order: 2},
		},
	}
}

func TestFindSection(t *testing.T) {
	s := sample()
	sec, ok := s.FindSection("FEATURES")
	require.True(t, ok)
	assert.Equal(t, "features-1", sec.ID)

	_, ok = s.FindSection("pricing")
	assert.False(t, ok)
	_, ok = s.FindSection(" ")
	assert.False(t, ok)
	assert.Equal(t, []string{"hero", "Features", "contact"}, s.SectionTypes())
}

func TestCloneIsDeep(t *testing.T) {
	s := sample()
	c := s.Clone()
	c.Theme.Colors["primary"] = "#FFFFFF"
	c.Sections[0].Content.BulletPoints[0] = "changed"
	c.Sections[1].Content.Metadata.WordCount = 99
	c.Sections[2].Type = "faq"

	assert.Equal(t, "#000000", s.Theme.Colors["primary"])
	assert.Equal(t, "a", s.Sections[0].Content.BulletPoints[0])
	assert.Equal(t, 1, s.Sections[1].Content.Metadata.WordCount)
	assert.Equal(t, "contact", s.Sections[2].Type)
}

func TestCommandValidate(t *testing.T) {
	cmd := Command{Intent: IntentAdd, Entity: EntitySection, Confidence: 0.9}
	require.NoError(t, cmd.Validate())
	assert.NotNil(t, cmd.Details)
	assert.True(t, cmd.Actionable())

	for _, bad := range []Command{
		{Intent: "dance", Entity: EntitySection, Confidence: 0.9},
		{Intent: IntentAdd, Entity: "page", Confidence: 0.9},
		{Intent: IntentAdd, Entity: EntitySection, Confidence: 1.5},
		{Intent: IntentAdd, Entity: EntitySection, Confidence: -0.1},
	} {
		assert.Error(t, bad.Validate(), "%+v", bad)
	}

	assert.False(t, Command{Intent: IntentAdd, Entity: EntitySection, Confidence: 0.59}.Actionable())
	assert.False(t, Command{Intent: IntentQuestion, Entity: EntityContent, Confidence: 1}.Actionable())
}

func TestDetailsString(t *testing.T) {
	d := Details{"s": " x ", "n": 3.0, "b": true, "nil": nil}
	assert.Equal(t, "x", d.String("s"))
	assert.Equal(t, "3", d.String("n"))
	assert.Equal(t, "true", d.String("b"))
	assert.Equal(t, "", d.String("nil"))
	assert.Equal(t, "", d.String("missing"))
}

func TestApplyAddSection(t *testing.T) {
	s := sample()
	out, err := Apply(s, Action{Type: ActionAddSection, Data: AddSectionData{Type: "pricing", Order: 3, Content: Content{Heading: "Plans"}}})
	require.NoError(t, err)
	require.Len(t, out.Sections, 4)
	added := out.Sections[3]
	assert.Equal(t, "pricing", added.Type)
	assert.Equal(t, 3, added.Order)
	assert.True(t, strings.HasPrefix(added.ID, "pricing-"))
	assert.Equal(t, "Plans", added.Content.Heading)
	assert.Len(t, s.Sections, 3)
}

func TestApplyThemeChange(t *testing.T) {
	s := sample()
	out, err := Apply(s, Action{Type: ActionChangeTheme, Data: ThemeChangeData{Property: "primary", Value: "#3B82F6"}})
	require.NoError(t, err)
	assert.Equal(t, "#3B82F6", out.Theme.Colors["primary"])
	assert.Equal(t, "#000000", s.Theme.Colors["primary"])

	out, err = Apply(s, Action{Type: ActionChangeTheme, Data: ThemeChangeData{Property: "Heading", Value: "Lato"}})
	require.NoError(t, err)
	assert.Equal(t, "Lato", out.Theme.Fonts["heading"])

	_, err = Apply(s, Action{Type: ActionChangeTheme, Data: ThemeChangeData{Value: "#fff"}})
	assert.Error(t, err)
}

func TestApplyModifySection(t *testing.T) {
	s := sample()
	out, err := Apply(s, Action{
		Type:   ActionModifySection,
		Target: "hero-0",
		Data:   ModifySectionData{SectionType: "hero", Details: Details{"property": "text", "value": "New body", "heading": "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi", out.Sections[0].Content.Heading)
	assert.Equal(t, "New body", out.Sections[0].Content.BodyText)
	assert.Equal(t, &ContentMetadata{WordCount: 2, ReadingTime: 1}, out.Sections[0].Content.Metadata)
	assert.Len(t, out.Sections, 3)

	// no target: the section is created
	out, err = Apply(s, Action{
		Type: ActionModifySection,
		Data: ModifySectionData{SectionType: "faq", Details: Details{"heading": "Questions"}},
	})
	require.NoError(t, err)
	require.Len(t, out.Sections, 4)
	assert.Equal(t, "faq", out.Sections[3].Type)
	assert.Equal(t, 3, out.Sections[3].Order)
	assert.Equal(t, "Questions", out.Sections[3].Content.Heading)
}

func TestApplyModifyKeepsMetadataInStep(t *testing.T) {
	s := sample()

	// heading only: body and metadata untouched
	out, err := Apply(s, Action{
		Type:   ActionModifySection,
		Target: "features-1",
		Data:   ModifySectionData{SectionType: "features", Details: Details{"property": "heading", "value": "Why us", "heading": "Why us"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Why us", out.Sections[1].Content.Heading)
	assert.Empty(t, out.Sections[1].Content.BodyText)
	assert.Equal(t, 1, out.Sections[1].Content.Metadata.WordCount)

	body := strings.TrimSpace(strings.Repeat("fast ", 201))
	out, err = Apply(s, Action{
		Type:   ActionModifySection,
		Target: "features-1",
		Data:   ModifySectionData{SectionType: "features", Details: Details{"bodyText": body}},
	})
	require.NoError(t, err)
	md := out.Sections[1].Content.Metadata
	require.NotNil(t, md)
	assert.Equal(t, len(strings.Fields(out.Sections[1].Content.BodyText)), md.WordCount)
	assert.Equal(t, 201, md.WordCount)
	assert.Equal(t, 2, md.ReadingTime)
	assert.Equal(t, 1, s.Sections[1].Content.Metadata.WordCount)
}

func TestApplyDeleteSection(t *testing.T) {
	s := sample()
	out, err := Apply(s, Action{Type: ActionDeleteSection, Target: "hero-0", Data: DeleteSectionData{SectionType: "hero"}})
	require.NoError(t, err)
	require.Len(t, out.Sections, 2)
	for i, sec := range out.Sections {
		assert.Equal(t, i, sec.Order)
	}
	assert.Equal(t, "hero-0", s.Sections[0].ID)

	// no target: nothing happens
	out, err = Apply(s, Action{Type: ActionDeleteSection, Data: DeleteSectionData{SectionType: "pricing"}})
	require.NoError(t, err)
	assert.Equal(t, s, out)
}

func TestApplyUpdateContent(t *testing.T) {
	s := sample()
	out, err := Apply(s, Action{Type: ActionUpdateContent, Target: "contact-2", Data: UpdateContentData{Content: Content{BodyText: "Call us"}}})
	require.NoError(t, err)
	assert.Equal(t, "Call us", out.Sections[2].Content.BodyText)

	_, err = Apply(s, Action{Type: ActionUpdateContent, Target: "gone", Data: UpdateContentData{}})
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = Apply(s, Action{Type: "rename_site"})
	assert.Error(t, err)
}

func TestActionJSONRoundTrip(t *testing.T) {
	in := []Action{
		{Type: ActionAddSection, Data: AddSectionData{Type: "pricing", Order: 2, Content: Content{Heading: "Plans"}}, Description: "Adding a pricing section"},
		{Type: ActionChangeTheme, Data: ThemeChangeData{Property: "primary", Value: "#3B82F6"}},
		{Type: ActionModifySection, Target: "hero-0", Data: ModifySectionData{SectionType: "hero", Details: Details{"value": "x"}}},
		{Type: ActionDeleteSection, Data: DeleteSectionData{SectionType: "faq"}},
		{Type: ActionUpdateContent, Target: "hero-0", Data: UpdateContentData{Content: Content{BodyText: "b"}, Changes: []ContentChange{{Type: "tone", Description: "d"}}, Metrics: QualityMetrics{ReadabilityScore: 100}}},
	}
	for _, a := range in {
		t.Run(string(a.Type), func(t *testing.T) {
			b, err := json.Marshal(a)
			require.NoError(t, err)
			var out Action
			require.NoError(t, json.Unmarshal(b, &out))
			assert.Equal(t, a, out)
		})
	}

	b, err := json.Marshal(in[3])
	require.NoError(t, err)
	assert.NotContains(t, string(b), "target")
}
