package generator

import "ai_site_pipeline/site"

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
	TonePersuasive   Tone = "persuasive"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// BusinessContext describes the site a section is written for.
type BusinessContext struct {
	SiteName       string `json:"siteName,omitempty" yaml:"siteName,omitempty"`
	BusinessType   string `json:"businessType,omitempty" yaml:"businessType,omitempty"`
	Industry       string `json:"industry,omitempty" yaml:"industry,omitempty"`
	TargetAudience string `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
}

type ContentRequest struct {
	SectionType          string          `json:"sectionType"`
	Context              BusinessContext `json:"context"`
	Tone                 Tone            `json:"tone"`
	Length               Length          `json:"length"`
	SpecificRequirements []string        `json:"specificRequirements,omitempty"`
}

type ImprovementType string

const (
	ImproveClarity    ImprovementType = "clarity"
	ImproveEngagement ImprovementType = "engagement"
	ImproveSEO        ImprovementType = "seo"
	ImproveBrevity    ImprovementType = "brevity"
	ImproveExpansion  ImprovementType = "expansion"
)

type ImprovementRequest struct {
	OriginalContent string          `json:"originalContent"`
	ImprovementType ImprovementType `json:"improvementType"`
	TargetAudience  string          `json:"targetAudience,omitempty"`
	Keywords        []string        `json:"keywords,omitempty"`
}

type ImprovementResult struct {
	ImprovedContent string               `json:"improvedContent"`
	Changes         []site.ContentChange `json:"changes"`
	Metrics         site.QualityMetrics  `json:"metrics"`
	// Baseline scores the original text with the same heuristics.
	Baseline site.QualityMetrics `json:"baseline"`
}

type Style string

const (
	StyleProfessional Style = "professional"
	StyleCreative     Style = "creative"
	StyleMinimal      Style = "minimal"
	StyleBold         Style = "bold"
	StyleElegant      Style = "elegant"
)

// SiteInput is the questionnaire a new site is generated from.
type SiteInput struct {
	BusinessName    string   `json:"businessName" yaml:"businessName"`
	BusinessType    string   `json:"businessType" yaml:"businessType"`
	Industry        string   `json:"industry" yaml:"industry"`
	Description     string   `json:"description" yaml:"description"`
	Style           Style    `json:"style" yaml:"style"`
	Goals           []string `json:"goals" yaml:"goals"`
	TargetAudience  string   `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	PreferredColors []string `json:"preferredColors,omitempty" yaml:"preferredColors,omitempty"`
}

type TemplateRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// GeneratedSite is the result of a full questionnaire run.
type GeneratedSite struct {
	SiteName string         `json:"siteName"`
	Template TemplateRef    `json:"template"`
	Theme    site.Theme     `json:"theme"`
	Sections []site.Section `json:"sections"`
	SEO      site.SEOMeta   `json:"seo"`
}

// Site converts the generation result into a document the assistant can edit.
func (g GeneratedSite) Site() site.Site {
	return site.Site{
		Name:     g.SiteName,
		Template: g.Template.ID,
		Theme:    g.Theme.Clone(),
		Sections: site.Site{Sections: g.Sections}.Clone().Sections,
	}
}
