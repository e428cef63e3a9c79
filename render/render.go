// Package render turns site documents into an HTML preview.
package render

import (
	"bytes"
	"fmt"
	"html"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"ai_site_pipeline/site"
)

// Markdown lays a section's content out as markdown: heading, subheading, body, bullets, CTA.
func Markdown(c site.Content) string {
	var b strings.Builder
	if h := oneLine(c.Heading); h != "" {
		b.WriteString("## " + h + "\n\n")
	}
	if sh := oneLine(c.Subheading); sh != "" {
		b.WriteString("### " + sh + "\n\n")
	}
	if body := strings.TrimSpace(c.BodyText); body != "" {
		b.WriteString(body + "\n\n")
	}
	for _, p := range c.BulletPoints {
		if p = oneLine(p); p != "" {
			b.WriteString("- " + p + "\n")
		}
	}
	if len(c.BulletPoints) > 0 {
		b.WriteString("\n")
	}
	if cta := oneLine(c.CTAText); cta != "" {
		b.WriteString("[" + strings.NewReplacer("[", `\[`, "]", `\]`).Replace(cta) + "](#contact)\n")
	}
	return b.String()
}

// Section renders one section's content to an HTML fragment.
func Section(c site.Content) (string, error) {
	out, err := mdToHTML(Markdown(c))
	if err != nil {
		return "", err
	}
	return decorate(out), nil
}

// Site renders a full preview document. Theme colors and fonts become CSS custom properties.
func Site(s site.Site) (string, error) {
	sections := slices.Clone(s.Sections)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	var body strings.Builder
	for _, sec := range sections {
		frag, err := Section(sec.Content)
		if err != nil {
			return "", fmt.Errorf("render section %s: %w", sec.ID, err)
		}
		fmt.Fprintf(&body, "<section id=\"%s\" class=\"section section-%s\">\n%s</section>\n",
			html.EscapeString(sec.ID), html.EscapeString(cssIdent(sec.Type)), frag)
	}

	title := html.EscapeString(strings.TrimSpace(s.Name))
	if title == "" {
		title = "Preview"
	}
	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", title)
	doc.WriteString("<style>\n" + ThemeCSS(s.Theme) + baseCSS + "</style>\n</head>\n")
	fmt.Fprintf(&doc, "<body class=\"template-%s\">\n", html.EscapeString(cssIdent(s.Template)))
	doc.WriteString(body.String())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}

// ThemeCSS emits a :root block with --color-* and --font-* variables in key order.
func ThemeCSS(t site.Theme) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range slices.Sorted(maps.Keys(t.Colors)) {
		fmt.Fprintf(&b, "  --color-%s: %s;\n", cssIdent(k), cssValue(t.Colors[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(t.Fonts)) {
		fmt.Fprintf(&b, "  --font-%s: %s;\n", cssIdent(k), cssValue(t.Fonts[k]))
	}
	b.WriteString("}\n")
	return b.String()
}

const baseCSS = `body { margin: 0; background: var(--color-background, #fff); color: var(--color-text, #1f2937); font-family: var(--font-body, sans-serif); }
.section { padding: 3rem 1.5rem; max-width: 960px; margin: 0 auto; }
.section h2, .section h3 { font-family: var(--font-heading, sans-serif); }
.section h3 { color: var(--color-textLight, #6b7280); }
.cta { display: inline-block; padding: 0.6em 1.4em; background: var(--color-primary, #2563eb); color: #fff; text-decoration: none; border-radius: 4px; }
`

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var ctaLink = regexp.MustCompile(`<a href="#contact">`)

// decorate marks the CTA link so the stylesheet can render it as a button.
func decorate(fragment string) string {
	return ctaLink.ReplaceAllString(fragment, `<a class="cta" href="#contact">`)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func cssIdent(s string) string {
	return nonIdent.ReplaceAllString(strings.TrimSpace(s), "-")
}

// cssValue 去掉可能闭合声明或标签的字符。
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
