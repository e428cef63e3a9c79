package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MockLLM 离线占位实现，不调用外部模型。
// Answers depend only on Prompt.Task and Prompt.Args, so offline runs are reproducible
// and independent of prompt wording.
type MockLLM struct{}

func (MockLLM) Complete(_ context.Context, p Prompt) (string, error) {
	switch p.Task {
	case TaskIntent:
		return mockJSON(mockIntent(p.Arg("utterance")))
	case TaskSectionContent:
		return mockJSON(mockSectionContent(p.Arg("sectionType")))
	case TaskImprove:
		return mockJSON(mockImprove(p.Arg("originalContent"), p.Arg("improvementType")))
	case TaskVariations:
		return mockJSON(mockVariations(p.Arg("text"), p.Arg("count")))
	case TaskSEOOptimize:
		return mockJSON(map[string]string{"text": mockSEOText(p.Arg("text"), p.Arg("keyword"))})
	case TaskMetaDescription:
		return mockJSON(map[string]string{"metaDescription": mockMeta(p.Arg("pageContent"))})
	case TaskTemplate:
		return mockJSON(mockTemplate(p.Arg("industry")))
	case TaskTheme:
		return mockJSON(map[string]string{
			"primary":    "#2563EB",
			"secondary":  "#1E40AF",
			"accent":     "#10B981",
			"background": "#FFFFFF",
			"text":       "#1F2937",
			"textLight":  "#6B7280",
		})
	case TaskSections:
		return mockJSON(mockSections(p.Arg("businessName")))
	case TaskSiteSEO:
		return mockJSON(mockSiteSEO(p.Arg("businessName"), p.Arg("industry")))
	case TaskPing:
		return "pong", nil
	default:
		return "This is a simulated AI response.", nil
	}
}

func mockJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// mockSectionAliases maps words found in utterances to catalog section types.
var mockSectionAliases = map[string]string{
	"hero": "hero", "banner": "hero",
	"feature": "features", "features": "features",
	"service": "services", "services": "services",
	"about": "about",
	"testimonial": "testimonials", "testimonials": "testimonials", "reviews": "testimonials",
	"team": "team",
	"pricing": "pricing", "prices": "pricing", "plans": "pricing",
	"faq": "faq", "faqs": "faq",
	"contact": "contact",
	"cta": "cta",
	"gallery": "gallery",
	"blog": "blog",
}

var mockColorProps = []string{"primary", "secondary", "accent", "background", "text"}

var mockColorNames = map[string]bool{
	"blue": true, "red": true, "green": true, "purple": true, "orange": true, "pink": true,
	"yellow": true, "indigo": true, "teal": true, "gray": true, "grey": true, "black": true, "white": true,
}

type mockCommand struct {
	Intent     string         `json:"intent"`
	Entity     string         `json:"entity"`
	Details    map[string]any `json:"details"`
	Confidence float64        `json:"confidence"`
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '#'
	})
}

// mockIntent is a small keyword parser standing in for the provider's intent extraction.
func mockIntent(utterance string) mockCommand {
	toks := words(utterance)
	has := func(ws ...string) bool {
		for _, t := range toks {
			for _, w := range ws {
				if t == w {
					return true
				}
			}
		}
		return false
	}

	sectionType := ""
	for _, t := range toks {
		if st, ok := mockSectionAliases[t]; ok {
			sectionType = st
			break
		}
	}

	question := mockCommand{Intent: "question", Entity: "content", Details: map[string]any{}, Confidence: 0.8}

	var intent string
	switch {
	case has("add", "create", "insert", "include"):
		intent = "add"
	case has("delete", "remove", "drop"):
		intent = "delete"
	case has("improve", "rewrite", "polish", "enhance", "better", "engaging"):
		intent = "improve"
	case has("change", "modify", "update", "set", "make", "switch", "replace"):
		intent = "change"
	default:
		return question
	}

	themeRelated := has("color", "colour", "theme")
	switch {
	case intent == "improve":
		if sectionType == "" {
			return question
		}
		return mockCommand{
			Intent:     "improve",
			Entity:     "content",
			Details:    map[string]any{"sectionType": sectionType, "improvementType": mockImprovementType(toks)},
			Confidence: 0.85,
		}
	case themeRelated && intent != "add" && intent != "delete":
		property := "primary"
		for _, p := range mockColorProps {
			if has(p) {
				property = p
				break
			}
		}
		return mockCommand{
			Intent:     intent,
			Entity:     "theme",
			Details:    map[string]any{"property": property, "value": mockColorValue(utterance, toks)},
			Confidence: 0.9,
		}
	case sectionType != "":
		details := map[string]any{"sectionType": sectionType}
		if intent == "change" {
			if v := afterWord(utterance, "to"); v != "" {
				details["property"] = "text"
				details["value"] = v
				if has("heading", "title", "headline") {
					details["property"] = "heading"
					details["heading"] = v
				}
			}
		}
		return mockCommand{Intent: intent, Entity: "section", Details: details, Confidence: 0.9}
	case intent == "add":
		// "add a section" with no recognised type
		return mockCommand{Intent: "add", Entity: "section", Details: map[string]any{"sectionType": "features"}, Confidence: 0.9}
	}
	return question
}

func mockImprovementType(toks []string) string {
	for _, t := range toks {
		switch t {
		case "clear", "clearer", "clarity", "simpler":
			return "clarity"
		case "seo", "search":
			return "seo"
		case "shorter", "concise", "brief":
			return "brevity"
		case "longer", "expand", "detail", "detailed":
			return "expansion"
		}
	}
	return "engagement"
}

func mockColorValue(utterance string, toks []string) string {
	if v := afterWord(utterance, "to"); v != "" {
		return strings.ToLower(v)
	}
	for _, t := range toks {
		if mockColorNames[t] || strings.HasPrefix(t, "#") {
			return t
		}
	}
	return ""
}

// afterWord returns the original-case rest of s after the first standalone word,
// without surrounding quotes or trailing punctuation.
func afterWord(s, word string) string {
	idx := strings.Index(strings.ToLower(s), " "+word+" ")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimRight(strings.TrimSpace(s[idx+len(word)+2:]), ".!?,;")
	return strings.TrimSpace(strings.Trim(rest, `"'`))
}

type mockContent struct {
	Heading      string   `json:"heading"`
	Subheading   string   `json:"subheading,omitempty"`
	BodyText     string   `json:"bodyText"`
	BulletPoints []string `json:"bulletPoints,omitempty"`
	CTAText      string   `json:"ctaText,omitempty"`
}

func mockSectionContent(sectionType string) mockContent {
	if sectionType == "features" {
		return mockContent{
			Heading:      "Powerful Features",
			Subheading:   "Everything you need",
			BodyText:     "Our platform offers a comprehensive suite of tools designed to help you succeed. From analytics to automation, we have it all.",
			BulletPoints: []string{"Easy to use", "Scalable", "Secure"},
			CTAText:      "Get Started",
		}
	}
	return mockContent{
		Heading:  titleCase(sectionType),
		BodyText: "Simulated AI content response.",
	}
}

func mockImprove(original, improvementType string) map[string]any {
	text := strings.TrimSpace(original)
	var improved, desc string
	switch improvementType {
	case "brevity":
		improved = firstSentence(text)
		desc = "Trimmed to the key message"
	case "expansion":
		improved = strings.TrimSpace(text + " Every detail is designed around your goals, with clear examples of how it works in practice.")
		desc = "Added supporting detail"
	case "seo":
		improved = text
		desc = "Tightened wording for search"
	case "clarity":
		improved = text
		desc = "Simplified sentence structure"
	default:
		improvementType = "engagement"
		improved = strings.TrimSpace(text + " Discover how simple it is to get started today.")
		desc = "Added a direct call to action"
	}
	return map[string]any{
		"improvedContent": improved,
		"changes":         []map[string]string{{"type": improvementType, "description": desc}},
	}
}

func mockVariations(text, count string) []string {
	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		n = 3
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s (variation %d)", strings.TrimSpace(text), i+1)
	}
	return out
}

func mockSEOText(text, keyword string) string {
	text = strings.TrimSpace(text)
	if keyword == "" || strings.Contains(strings.ToLower(text), strings.ToLower(keyword)) {
		return text
	}
	return titleCase(keyword) + ": " + text
}

func mockMeta(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	r := []rune(content)
	if len(r) > 155 {
		return string(r[:155]) + "..."
	}
	return content
}

var mockIndustryTemplates = map[string]string{
	"design":      "creative-portfolio",
	"photography": "creative-portfolio",
	"blog":        "blog-magazine",
	"news":        "blog-magazine",
	"ecommerce":   "ecommerce",
	"retail":      "ecommerce",
	"marketing":   "landing-page",
	"saas":        "landing-page",
}

func mockTemplate(industry string) map[string]any {
	id := mockIndustryTemplates[strings.ToLower(strings.TrimSpace(industry))]
	if id == "" {
		id = "business-professional"
	}
	return map[string]any{"templateId": id, "score": 95, "reason": "Best match for business needs"}
}

func mockSections(businessName string) []map[string]any {
	name := strings.TrimSpace(businessName)
	if name == "" {
		name = "Our Company"
	}
	mk := func(typ string, order int, heading, body, cta string) map[string]any {
		c := map[string]any{"heading": heading, "bodyText": body}
		if cta != "" {
			c["ctaText"] = cta
		}
		return map[string]any{"type": typ, "order": order, "content": c}
	}
	return []map[string]any{
		mk("hero", 0, "Welcome to "+name, "Professional services for your business.", "Get Started"),
		mk("features", 1, "Why Choose Us", "Excellence in every detail.", ""),
		mk("about", 2, "About "+name, "We help you grow with a team that cares about results.", ""),
		mk("testimonials", 3, "What Our Clients Say", "Trusted by customers who value quality.", ""),
		mk("contact", 4, "Get in Touch", "Tell us about your project and we will reply within a day.", "Contact Us"),
	}
}

func mockSiteSEO(businessName, industry string) map[string]any {
	title := "Professional Business Services"
	if businessName != "" {
		title = businessName + " | " + title
	}
	keywords := []string{"business", "growth", "services"}
	if industry != "" {
		keywords = append([]string{strings.ToLower(industry)}, keywords...)
	}
	return map[string]any{
		"title":       title,
		"description": "Best business services for your growth",
		"keywords":    keywords,
	}
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Section"
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		return s[:i+1]
	}
	return s
}
