package generator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ai_site_pipeline/contract"
	"ai_site_pipeline/provider"
	"ai_site_pipeline/site"
)

var templateNames = map[string]string{
	"business-professional": "Business Professional",
	"creative-portfolio":    "Creative Portfolio",
	"landing-page":          "Landing Page Conversion",
	"blog-magazine":         "Blog/Magazine",
	"ecommerce":             "E-commerce Minimal",
}

var industryCategories = map[string]string{
	"technology":  "business",
	"consulting":  "business",
	"design":      "portfolio",
	"photography": "portfolio",
	"blog":        "blog",
	"news":        "blog",
	"ecommerce":   "ecommerce",
	"retail":      "ecommerce",
	"marketing":   "landing",
	"saas":        "landing",
}

// CategoryForIndustry maps an industry to a template category; unknown industries are "business".
func CategoryForIndustry(industry string) string {
	if c, ok := industryCategories[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return c
	}
	return "business"
}

var fontPairs = map[Style]map[string]string{
	StyleProfessional: {"heading": "Inter, sans-serif", "body": "Inter, sans-serif"},
	StyleCreative:     {"heading": "Playfair Display, serif", "body": "Source Sans Pro, sans-serif"},
	StyleMinimal:      {"heading": "Helvetica Neue, sans-serif", "body": "Helvetica Neue, sans-serif"},
	StyleBold:         {"heading": "Montserrat, sans-serif", "body": "Open Sans, sans-serif"},
	StyleElegant:      {"heading": "Cormorant Garamond, serif", "body": "Lato, sans-serif"},
}

// FontsForStyle returns a fresh copy of the font pair for style; unknown styles are professional.
func FontsForStyle(style Style) map[string]string {
	pair, ok := fontPairs[Style(strings.ToLower(string(style)))]
	if !ok {
		pair = fontPairs[StyleProfessional]
	}
	out := make(map[string]string, len(pair))
	for k, v := range pair {
		out[k] = v
	}
	return out
}

// ThemeColorKeys are required in every generated theme.
var ThemeColorKeys = []string{"primary", "secondary", "accent", "background", "text", "textLight"}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SiteGenerator builds a new site from a questionnaire in four provider round trips.
type SiteGenerator struct {
	llm provider.LLMClient
	log logrus.FieldLogger
}

func NewSiteGenerator(llm provider.LLMClient, logger logrus.FieldLogger) (*SiteGenerator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SiteGenerator{llm: llm, log: logger.WithField("component", "site_generator")}, nil
}

// GenerateSite runs template, theme, sections and SEO concurrently.
// Any failing step fails the whole generation; there is no partial result.
func (g *SiteGenerator) GenerateSite(ctx context.Context, in SiteInput) (GeneratedSite, error) {
	var (
		tpl      site.TemplateSuggestion
		theme    site.Theme
		sections []site.Section
		seo      site.SEOMeta
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { tpl, err = g.SuggestTemplate(ctx, in); return })
	eg.Go(func() (err error) { theme, err = g.GenerateTheme(ctx, in); return })
	eg.Go(func() (err error) { sections, err = g.GenerateSections(ctx, in); return })
	eg.Go(func() (err error) { seo, err = g.GenerateSEO(ctx, in); return })
	if err := eg.Wait(); err != nil {
		return GeneratedSite{}, fmt.Errorf("site generation failed: %w", err)
	}

	g.log.WithFields(logrus.Fields{"template": tpl.TemplateID, "sections": len(sections)}).Info("site generated")
	return GeneratedSite{
		SiteName: in.BusinessName,
		Template: TemplateRef{
			ID:       tpl.TemplateID,
			Name:     tpl.Preview.Name,
			Category: CategoryForIndustry(in.Industry),
		},
		Theme:    theme,
		Sections: sections,
		SEO:      seo,
	}, nil
}

type templatePayload struct {
	TemplateID string `json:"templateId"`
	Score      int    `json:"score"`
	Reason     string `json:"reason"`
}

func (p *templatePayload) Validate() error {
	if _, ok := templateNames[p.TemplateID]; !ok {
		return fmt.Errorf("unknown templateId %q", p.TemplateID)
	}
	if p.Score < 0 || p.Score > 100 {
		return fmt.Errorf("score %d out of range [0,100]", p.Score)
	}
	return nil
}

func (g *SiteGenerator) SuggestTemplate(ctx context.Context, in SiteInput) (site.TemplateSuggestion, error) {
	raw, err := g.llm.Complete(ctx, BuildTemplatePrompt(in))
	if err != nil {
		return site.TemplateSuggestion{}, err
	}
	var p templatePayload
	if err := contract.Decode(raw, &p); err != nil {
		return site.TemplateSuggestion{}, fmt.Errorf("suggest template: %w", err)
	}
	return site.TemplateSuggestion{
		TemplateID: p.TemplateID,
		Score:      p.Score,
		Reason:     p.Reason,
		Preview: site.TemplatePreview{
			Name:        templateNames[p.TemplateID],
			Thumbnail:   "/templates/" + p.TemplateID + ".jpg",
			Description: p.Reason,
		},
	}, nil
}

type colorsPayload map[string]string

func (p *colorsPayload) Validate() error {
	for _, k := range ThemeColorKeys {
		v, ok := (*p)[k]
		if !ok {
			return fmt.Errorf("theme is missing %q", k)
		}
		if !hexColor.MatchString(strings.TrimSpace(v)) {
			return fmt.Errorf("theme color %s=%q is not a hex color", k, v)
		}
	}
	return nil
}

func (g *SiteGenerator) GenerateTheme(ctx context.Context, in SiteInput) (site.Theme, error) {
	raw, err := g.llm.Complete(ctx, BuildThemePrompt(in))
	if err != nil {
		return site.Theme{}, err
	}
	var colors colorsPayload
	if err := contract.Decode(raw, &colors); err != nil {
		return site.Theme{}, fmt.Errorf("generate theme: %w", err)
	}
	out := make(map[string]string, len(ThemeColorKeys))
	for _, k := range ThemeColorKeys {
		out[k] = strings.ToUpper(strings.TrimSpace(colors[k]))
	}
	return site.Theme{Colors: out, Fonts: FontsForStyle(in.Style)}, nil
}

type sectionsPayload []site.Section

func (p *sectionsPayload) Validate() error {
	if len(*p) == 0 {
		return errors.New("no sections returned")
	}
	for i, s := range *p {
		if strings.TrimSpace(s.Type) == "" {
			return fmt.Errorf("section %d has no type", i)
		}
	}
	return nil
}

// GenerateSections assigns dense orders and IDs of the form "<type>-<order>".
func (g *SiteGenerator) GenerateSections(ctx context.Context, in SiteInput) ([]site.Section, error) {
	raw, err := g.llm.Complete(ctx, BuildSectionsPrompt(in))
	if err != nil {
		return nil, err
	}
	var p sectionsPayload
	if err := contract.Decode(raw, &p); err != nil {
		return nil, fmt.Errorf("generate sections: %w", err)
	}
	if n := len(p); n < 5 || n > 7 {
		g.log.WithField("sections", n).Warn("provider returned a section count outside 5-7")
	}
	out := make([]site.Section, len(p))
	for i, s := range p {
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		s.Order = i
		s.ID = fmt.Sprintf("%s-%d", s.Type, i)
		s.Content = finalizeContent(s.Content)
		out[i] = s
	}
	return out, nil
}

type seoPayload site.SEOMeta

func (p *seoPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("seo title is empty")
	}
	return nil
}

func (g *SiteGenerator) GenerateSEO(ctx context.Context, in SiteInput) (site.SEOMeta, error) {
	raw, err := g.llm.Complete(ctx, BuildSEOPrompt(in))
	if err != nil {
		return site.SEOMeta{}, err
	}
	var p seoPayload
	if err := contract.Decode(raw, &p); err != nil {
		return site.SEOMeta{}, fmt.Errorf("generate seo: %w", err)
	}
	meta := site.SEOMeta(p)
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Description = strings.TrimSpace(meta.Description)
	if meta.Keywords == nil {
		meta.Keywords = []string{}
	}
	return meta, nil
}
