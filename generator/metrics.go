package generator

import (
	"math"
	"strings"
	"unicode"

	"ai_site_pipeline/site"
)

var (
	actionWords = []string{"discover", "learn", "get", "start", "join", "explore", "create"}
	ctaWords    = []string{"now", "today", "free", "easy", "simple"}
)

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SentenceCount counts non-empty segments between '.', '!' and '?'. It is never below 1.
func SentenceCount(text string) int {
	n := 0
	for _, seg := range strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' }) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// ReadingTime is minutes at 200 words per minute, rounded up.
func ReadingTime(wordCount int) int {
	return int(math.Ceil(float64(wordCount) / 200))
}

func contentMetadata(bodyText string) *site.ContentMetadata {
	wc := WordCount(bodyText)
	return &site.ContentMetadata{WordCount: wc, ReadingTime: ReadingTime(wc)}
}

// ReadabilityForAverage scores an average sentence length: 100 up to 20 words,
// then minus 2 per extra word, clamped to [0,100].
func ReadabilityForAverage(avg float64) float64 {
	score := 100.0
	if avg > 20 {
		score -= 2 * (avg - 20)
	}
	return clamp(score)
}

func Readability(text string) int {
	avg := float64(WordCount(text)) / float64(SentenceCount(text))
	return int(math.Round(ReadabilityForAverage(avg)))
}

func SEOScore(text string) int {
	score := 50
	w := WordCount(text)
	switch {
	case w >= 100 && w <= 500:
		score += 20
	case w >= 50:
		score += 10
	}
	if strings.Contains(text, "\n\n") || len([]rune(text)) > 200 {
		score += 15
	}
	if w > 0 {
		unique := make(map[string]struct{}, w)
		for _, f := range strings.Fields(strings.ToLower(text)) {
			unique[f] = struct{}{}
		}
		if float64(len(unique))/float64(w) > 0.5 {
			score += 15
		}
	}
	return int(clamp(float64(score)))
}

func EngagementScore(text string) int {
	score := 40
	lower := strings.ToLower(text)
	if containsAny(lower, actionWords) {
		score += 20
	}
	if strings.Contains(text, "?") {
		score += 15
	}
	if containsAny(lower, ctaWords) {
		score += 15
	}
	if strings.IndexFunc(text, unicode.IsDigit) >= 0 {
		score += 10
	}
	return int(clamp(float64(score)))
}

// ScoreText computes all three metrics for text.
func ScoreText(text string) site.QualityMetrics {
	return site.QualityMetrics{
		ReadabilityScore: Readability(text),
		SEOScore:         SEOScore(text),
		EngagementScore:  EngagementScore(text),
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
