package generator

import (
	"fmt"
	"strconv"
	"strings"

	"ai_site_pipeline/provider"
)

// sectionDescriptions is the catalog of section types the generator knows how to describe.
var sectionDescriptions = map[string]string{
	"hero":         "a compelling hero section with a strong headline, subheadline, and call-to-action",
	"features":     "a features section highlighting key benefits and capabilities",
	"services":     "a services section describing what the business offers",
	"about":        "an about section telling the company story and values",
	"testimonials": "testimonial content with customer quotes",
	"team":         "a team section introducing key people",
	"pricing":      "a pricing section with clear value propositions",
	"faq":          "frequently asked questions with helpful answers",
	"contact":      "a contact section encouraging visitors to get in touch",
	"cta":          "a call-to-action section with persuasive copy",
}

// SectionDescription returns the catalog phrase for a section type.
func SectionDescription(sectionType string) string {
	if d, ok := sectionDescriptions[strings.ToLower(sectionType)]; ok {
		return d
	}
	return fmt.Sprintf("content for a %s section", sectionType)
}

var lengthGuides = map[Length]string{
	LengthShort:  "50-100",
	LengthMedium: "150-250",
	LengthLong:   "300-500",
}

// LengthGuide returns the target word range; unknown lengths use medium.
func LengthGuide(l Length) string {
	if g, ok := lengthGuides[l]; ok {
		return g
	}
	return lengthGuides[LengthMedium]
}

var improvementInstructions = map[ImprovementType]string{
	ImproveClarity:    "Make it clearer and easier to understand",
	ImproveEngagement: "Make it more engaging and compelling",
	ImproveSEO:        "Optimize for search engines while keeping it natural",
	ImproveBrevity:    "Make it more concise without losing key information",
	ImproveExpansion:  "Expand with more detail and examples",
}

// BuildContentPrompt 生成单个 section 的内容提示词。
func BuildContentPrompt(req ContentRequest) provider.Prompt {
	businessType := req.Context.BusinessType
	if businessType == "" {
		businessType = "business"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate %s for a %s website.\n\n", SectionDescription(req.SectionType), businessType))
	sb.WriteString("Context:\n")
	if req.Context.SiteName != "" {
		sb.WriteString(fmt.Sprintf("- Business name: %s\n", req.Context.SiteName))
	}
	if req.Context.Industry != "" {
		sb.WriteString(fmt.Sprintf("- Industry: %s\n", req.Context.Industry))
	}
	if req.Context.TargetAudience != "" {
		sb.WriteString(fmt.Sprintf("- Target audience: %s\n", req.Context.TargetAudience))
	}
	sb.WriteString(fmt.Sprintf("\nTone: %s\n", req.Tone))
	sb.WriteString(fmt.Sprintf("Length: %s\n", req.Length))
	if len(req.SpecificRequirements) > 0 {
		sb.WriteString(fmt.Sprintf("Special requirements: %s\n", strings.Join(req.SpecificRequirements, ", ")))
	}
	sb.WriteString(fmt.Sprintf(`
Return ONLY a JSON object:
{
  "heading": "Main heading (5-10 words)",
  "subheading": "Supporting subheading (optional)",
  "bodyText": "Main body text (%s words)",
  "bulletPoints": ["point 1", "point 2", "point 3"] (optional),
  "ctaText": "Call-to-action button text (2-4 words)" (optional)
}`, LengthGuide(req.Length)))

	return provider.Prompt{
		Task: provider.TaskSectionContent,
		User: sb.String(),
		Args: map[string]string{
			"sectionType": req.SectionType,
			"siteName":    req.Context.SiteName,
			"tone":        string(req.Tone),
			"length":      string(req.Length),
		},
	}
}

// BuildImprovementPrompt 生成改写提示词。
func BuildImprovementPrompt(req ImprovementRequest) provider.Prompt {
	instruction, ok := improvementInstructions[req.ImprovementType]
	if !ok {
		instruction = "Improve the overall quality"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s:\n\nOriginal content:\n\"%s\"\n\n", instruction, req.OriginalContent))
	if req.TargetAudience != "" {
		sb.WriteString(fmt.Sprintf("Target audience: %s\n", req.TargetAudience))
	}
	if len(req.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords to include: %s\n", strings.Join(req.Keywords, ", ")))
	}
	sb.WriteString(`
Return ONLY a JSON object:
{
  "improvedContent": "The improved version",
  "changes": [
    {"type": "clarity|tone|structure|etc", "description": "What was changed"}
  ]
}`)
	return provider.Prompt{
		Task: provider.TaskImprove,
		User: sb.String(),
		Args: map[string]string{
			"originalContent": req.OriginalContent,
			"improvementType": string(req.ImprovementType),
		},
	}
}

func BuildVariationsPrompt(text string, count int, tone string) provider.Prompt {
	toneClause := ""
	if tone != "" {
		toneClause = fmt.Sprintf(" with a %s tone", tone)
	}
	user := fmt.Sprintf(`Generate %d variations of this text%s:

"%s"

Return ONLY a JSON array of strings:
["variation 1", "variation 2", "variation 3"]`, count, toneClause, text)
	return provider.Prompt{
		Task: provider.TaskVariations,
		User: user,
		Args: map[string]string{"text": text, "count": strconv.Itoa(count), "tone": tone},
	}
}

func BuildSEOOptimizePrompt(text, keyword string, targetLength int) provider.Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Optimize this content for SEO with focus keyword %q:\n\nOriginal content:\n\"%s\"\n\n", keyword, text))
	if targetLength > 0 {
		sb.WriteString(fmt.Sprintf("Target length: ~%d words\n\n", targetLength))
	}
	sb.WriteString(`Guidelines:
- Include the keyword naturally 2-3 times
- Improve readability
- Make it engaging
- Keep the core message

Return ONLY a JSON object:
{
  "text": "The optimized text"
}`)
	return provider.Prompt{
		Task: provider.TaskSEOOptimize,
		User: sb.String(),
		Args: map[string]string{"text": text, "keyword": keyword, "targetLength": strconv.Itoa(targetLength)},
	}
}

func BuildMetaDescriptionPrompt(pageContent, keyword string) provider.Prompt {
	summary := collapseWhitespace(pageContent, 500)
	var sb strings.Builder
	sb.WriteString("Generate a compelling meta description (150-160 characters) for this page:\n\n")
	sb.WriteString(fmt.Sprintf("Content summary: %s\n", summary))
	if keyword != "" {
		sb.WriteString(fmt.Sprintf("Focus keyword: %s\n", keyword))
	}
	sb.WriteString(`
Return ONLY a JSON object:
{
  "metaDescription": "The meta description"
}`)
	return provider.Prompt{
		Task: provider.TaskMetaDescription,
		User: sb.String(),
		Args: map[string]string{"pageContent": summary, "keyword": keyword},
	}
}

func siteArgs(in SiteInput) map[string]string {
	return map[string]string{
		"businessName":    in.BusinessName,
		"businessType":    in.BusinessType,
		"industry":        in.Industry,
		"style":           string(in.Style),
		"preferredColors": strings.Join(in.PreferredColors, ","),
	}
}

func BuildTemplatePrompt(in SiteInput) provider.Prompt {
	user := fmt.Sprintf(`Suggest the best website template for this business:
Industry: %s
Business type: %s
Style preference: %s
Goals: %s

Available templates:
1. Business Professional - Corporate, services, team showcase
2. Creative Portfolio - Visual projects, creative work
3. Landing Page - Single page, conversion-focused
4. Blog/Magazine - Content-heavy, articles
5. E-commerce - Product showcase, online store

Return ONLY a JSON object:
{
  "templateId": "business-professional|creative-portfolio|landing-page|blog-magazine|ecommerce",
  "score": 0-100,
  "reason": "Brief explanation"
}`, in.Industry, in.BusinessType, in.Style, strings.Join(in.Goals, ", "))
	return provider.Prompt{Task: provider.TaskTemplate, User: user, Args: siteArgs(in), MaxTokens: siteMaxTokens}
}

func BuildThemePrompt(in SiteInput) provider.Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate a color theme for a %s %s website.\n", in.Style, in.Industry))
	sb.WriteString(fmt.Sprintf("Business: %s\n", in.BusinessName))
	sb.WriteString(fmt.Sprintf("Description: %s\n", in.Description))
	if len(in.PreferredColors) > 0 {
		sb.WriteString(fmt.Sprintf("Preferred colors: %s\n", strings.Join(in.PreferredColors, ", ")))
	}
	sb.WriteString(`
Return ONLY a JSON object with these exact keys:
{
  "primary": "#hexcolor",
  "secondary": "#hexcolor",
  "accent": "#hexcolor",
  "background": "#hexcolor",
  "text": "#hexcolor",
  "textLight": "#hexcolor"
}`)
	return provider.Prompt{Task: provider.TaskTheme, User: sb.String(), Args: siteArgs(in), MaxTokens: siteMaxTokens}
}

func BuildSectionsPrompt(in SiteInput) provider.Prompt {
	audience := in.TargetAudience
	if audience == "" {
		audience = "General public"
	}
	user := fmt.Sprintf(`Create website sections for a %s business.
Business name: %s
Description: %s
Style: %s
Goals: %s
Target audience: %s

Generate 5-7 sections with appropriate content. Return ONLY a JSON array with this structure:
[
  {
    "type": "hero|features|services|testimonials|team|contact|etc",
    "order": 0,
    "content": {
      "heading": "Main heading",
      "subheading": "Subheading",
      "bodyText": "Body text",
      "bulletPoints": ["point 1", "point 2"],
      "ctaText": "Button text"
    }
  }
]`, in.Industry, in.BusinessName, in.Description, in.Style, strings.Join(in.Goals, ", "), audience)
	return provider.Prompt{Task: provider.TaskSections, User: user, Args: siteArgs(in), MaxTokens: siteMaxTokens}
}

func BuildSEOPrompt(in SiteInput) provider.Prompt {
	user := fmt.Sprintf(`Create SEO metadata for a %s website.
Business: %s
Description: %s

Return ONLY a JSON object:
{
  "title": "SEO title (50-60 chars)",
  "description": "Meta description (150-160 chars)",
  "keywords": ["keyword1", "keyword2", "keyword3"]
}`, in.Industry, in.BusinessName, in.Description)
	return provider.Prompt{Task: provider.TaskSiteSEO, User: user, Args: siteArgs(in), MaxTokens: siteMaxTokens}
}

// siteMaxTokens 站点生成的回复更长。
const siteMaxTokens = 4000
