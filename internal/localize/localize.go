// Package localize turns a free-text keyword plus a country code into a
// search query expressed in that country's dominant language.
//
// The translation fallback ladder is an explicit ordered list of
// strategies; the first one to succeed wins and its output goes through
// the same normalization. If every rung fails the original keyword is
// returned verbatim, so the result is never empty.
package localize

import (
	"context"
	"log/slog"
	"strings"
)

// fallbackQuery is returned for an empty keyword with an unrecognized
// country code.
const fallbackQuery = "news"

// countryLanguages maps a country code to its dominant language code,
// used by the deterministic translation rung.
var countryLanguages = map[string]string{
	"kr": "ko",
	"jp": "ja",
	"cn": "zh-CN",
	"tw": "zh-TW",
	"us": "en",
	"gb": "en",
	"au": "en",
	"ca": "en",
	"fr": "fr",
	"de": "de",
	"es": "es",
	"mx": "es",
	"sa": "ar",
	"ae": "ar",
	"eg": "ar",
}

// languageNames is used when prompting the generative rung.
var languageNames = map[string]string{
	"ko":    "Korean",
	"ja":    "Japanese",
	"zh-CN": "Simplified Chinese",
	"zh-TW": "Traditional Chinese",
	"en":    "English",
	"fr":    "French",
	"de":    "German",
	"es":    "Spanish",
	"ar":    "Arabic",
}

// defaultQueries are curated generic-news OR-expressions per country,
// used when the caller supplies no keyword.
var defaultQueries = map[string]string{
	"kr": "뉴스 OR 속보 OR 오늘",
	"jp": "ニュース OR 速報 OR 今日",
	"cn": "新闻 OR 头条 OR 今日",
	"tw": "新聞 OR 頭條 OR 今日",
	"us": "news OR breaking OR today",
	"gb": "news OR breaking OR today",
	"au": "news OR breaking OR today",
	"ca": "news OR breaking OR today",
	"fr": "actualités OR informations OR aujourd'hui",
	"de": "Nachrichten OR Schlagzeilen OR heute",
	"es": "noticias OR actualidad OR hoy",
	"mx": "noticias OR actualidad OR hoy",
	"sa": "أخبار OR عاجل OR اليوم",
	"ae": "أخبار OR عاجل OR اليوم",
	"eg": "أخبار OR عاجل OR اليوم",
}

// QueryTranslator is the generative rung's contract.
type QueryTranslator interface {
	TranslateQuery(ctx context.Context, keyword, languageName string) (string, error)
}

// TextTranslator is the deterministic rung's contract (satisfied by
// translate.Translator implementations).
type TextTranslator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type strategy struct {
	name string
	run  func(ctx context.Context, keyword, lang string) (string, error)
}

type Localizer struct {
	strategies []strategy
}

// New builds the ladder: generative → deterministic. Either client may
// be nil, which simply removes that rung.
func New(generative QueryTranslator, deterministic TextTranslator) *Localizer {
	l := &Localizer{}

	if generative != nil {
		l.strategies = append(l.strategies, strategy{
			name: "generative",
			run: func(ctx context.Context, keyword, lang string) (string, error) {
				return generative.TranslateQuery(ctx, keyword, languageNames[lang])
			},
		})
	}
	if deterministic != nil {
		l.strategies = append(l.strategies, strategy{
			name: "deterministic",
			run: func(ctx context.Context, keyword, lang string) (string, error) {
				return deterministic.Translate(ctx, keyword, lang)
			},
		})
	}
	return l
}

// Localize returns a non-empty search query for the given keyword and
// country code.
func (l *Localizer) Localize(ctx context.Context, keyword, countryCode string) string {
	countryCode = strings.ToLower(strings.TrimSpace(countryCode))
	keyword = strings.TrimSpace(keyword)

	if keyword == "" {
		if q, ok := defaultQueries[countryCode]; ok {
			return q
		}
		return fallbackQuery
	}

	lang, ok := countryLanguages[countryCode]
	if !ok {
		return keyword
	}

	for _, s := range l.strategies {
		translated, err := s.run(ctx, keyword, lang)
		if err != nil {
			slog.Warn("query translation rung failed", "strategy", s.name, "error", err)
			continue
		}
		normalized := NormalizeQuery(translated)
		if normalized == "" {
			slog.Warn("query translation rung produced empty query", "strategy", s.name)
			continue
		}
		slog.Debug("query localized", "strategy", s.name, "query", normalized)
		return normalized
	}

	slog.Warn("all query translation rungs failed, using original keyword", "keyword", keyword)
	return keyword
}

// NormalizeQuery strips boolean-OR constructs and quote characters a
// translation may have added, leaving a single unambiguous term. Applied
// identically to every rung's output.
func NormalizeQuery(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch r {
		case '"', '\'', '`', '“', '”', '‘', '’', '«', '»', '(', ')':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if w == "OR" || w == "|" || w == "||" {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
