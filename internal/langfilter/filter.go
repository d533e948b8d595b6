// Package langfilter drops fetched articles that are plainly not written
// in the requested country's script.
package langfilter

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/brieflynews/insights/internal/article"
)

// countryScripts maps a country code to the unicode script tables an
// article's title+description must touch to be kept. Countries without
// an entry pass through unfiltered.
var countryScripts = map[string][]*unicode.RangeTable{
	"kr": {unicode.Hangul},
	"jp": {unicode.Hiragana, unicode.Katakana, unicode.Han},
	"cn": {unicode.Han},
	"tw": {unicode.Han},
	"sa": {unicode.Arabic},
	"ae": {unicode.Arabic},
	"eg": {unicode.Arabic},
	"us": {unicode.Latin},
	"gb": {unicode.Latin},
	"au": {unicode.Latin},
	"ca": {unicode.Latin},
	"fr": {unicode.Latin},
	"de": {unicode.Latin},
	"es": {unicode.Latin},
	"mx": {unicode.Latin},
}

// Filter keeps articles whose title+description contains at least one
// rune of the country's script. If filtering would empty a non-empty
// batch it is a no-op: partial information beats an empty result.
func Filter(articles []article.Article, countryCode string) []article.Article {
	if len(articles) == 0 {
		return articles
	}

	scripts, ok := countryScripts[strings.ToLower(strings.TrimSpace(countryCode))]
	if !ok {
		return articles
	}

	filtered := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if containsScript(a.Text(), scripts) {
			filtered = append(filtered, a)
		}
	}

	if len(filtered) == 0 {
		slog.Warn("language filter would drop every article, returning batch unfiltered",
			"country", countryCode, "count", len(articles))
		return articles
	}

	if dropped := len(articles) - len(filtered); dropped > 0 {
		slog.Debug("language filter dropped articles", "country", countryCode, "dropped", dropped)
	}
	return filtered
}

func containsScript(text string, scripts []*unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.IsOneOf(scripts, r) {
			return true
		}
	}
	return false
}
