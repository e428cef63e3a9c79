package generator

import (
	"strings"

	"ai_site_pipeline/site"
)

// finalizeContent trims generated fields and recomputes metadata from bodyText.
func finalizeContent(c site.Content) site.Content {
	c.Heading = strings.TrimSpace(c.Heading)
	c.Subheading = strings.TrimSpace(c.Subheading)
	c.BodyText = strings.TrimSpace(c.BodyText)
	c.CTAText = strings.TrimSpace(c.CTAText)
	if len(c.BulletPoints) > 0 {
		points := c.BulletPoints[:0:0]
		for _, p := range c.BulletPoints {
			if p = strings.TrimSpace(p); p != "" {
				points = append(points, p)
			}
		}
		c.BulletPoints = points
	}
	c.Metadata = contentMetadata(c.BodyText)
	return c
}

// degradedContent wraps unparseable provider text as the body of a section.
func degradedContent(raw string) site.Content {
	return site.Content{BodyText: raw, Metadata: contentMetadata(raw)}
}

// collapseWhitespace 压缩空白后按 rune 截断。
func collapseWhitespace(s string, limit int) string {
	joined := strings.Join(strings.Fields(s), " ")
	r := []rune(joined)
	if limit <= 0 || len(r) <= limit {
		return joined
	}
	return string(r[:limit])
}
