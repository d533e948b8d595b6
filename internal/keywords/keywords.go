// Package keywords extracts ranked keyword frequencies from article
// text: cleaning, language-aware tokenization, stopword and length
// filtering, and stable frequency ranking.
package keywords

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/brieflynews/insights/internal/article"
)

const (
	DefaultTopN      = 20
	DefaultMinLength = 2
)

var (
	urlRe            = regexp.MustCompile(`https?://\S+`)
	emailRe          = regexp.MustCompile(`\S+@\S+`)
	truncationMarkRe = regexp.MustCompile(`\[\+\d+\s*chars\]`)
	collapseSpacesRe = regexp.MustCompile(`\s+`)
)

// stopwords covers Korean particles/pronouns/news boilerplate plus a
// small English boilerplate set.
var stopwords = map[string]struct{}{
	// 조사, 접속사
	"것": {}, "등": {}, "수": {}, "때": {}, "년": {}, "월": {}, "일": {}, "곳": {}, "중": {}, "내": {}, "외": {},
	// 대명사
	"이": {}, "그": {}, "저": {}, "이것": {}, "그것": {}, "저것": {}, "여기": {}, "거기": {}, "저기": {},
	// 일반 단어
	"있다": {}, "없다": {}, "하다": {}, "되다": {}, "이다": {}, "아니다": {},
	"통해": {}, "위해": {}, "대해": {}, "따라": {}, "의해": {}, "관련": {}, "현재": {}, "최근": {},
	"우리": {}, "저희": {}, "기자": {}, "뉴스": {}, "오늘": {}, "어제": {}, "내일": {},
	"지난": {}, "다음": {}, "올해": {}, "작년": {}, "내년": {}, "이번": {}, "지난해": {},
	// 기타
	"때문": {}, "경우": {}, "정도": {}, "만큼": {}, "이상": {}, "이하": {}, "약": {}, "전": {}, "후": {},
	// English boilerplate
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {}, "from": {}, "have": {},
	"news": {}, "said": {}, "says": {}, "will": {}, "been": {}, "were": {}, "today": {}, "yesterday": {},
}

// KeywordCount is one ranked keyword.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ArticleKeywordResult is the batch analysis result. TotalWords sums the
// counts of the returned (already truncated) keyword list, not the full
// corpus; downstream callers depend on that definition.
type ArticleKeywordResult struct {
	Keywords      []KeywordCount `json:"keywords"`
	TotalWords    int            `json:"total_words"`
	AnalyzedCount int            `json:"analyzed_count"`
}

// Extractor routes text to a per-language tokenizer. A nil Extractor, or
// one whose analyzers all failed to initialize, yields empty keyword
// lists rather than errors.
type Extractor struct {
	korean   Tokenizer
	japanese Tokenizer
	simple   Tokenizer
}

// NewExtractor wires the default tokenizers. A kagome initialization
// failure only disables the Japanese analyzer.
func NewExtractor() *Extractor {
	e := &Extractor{
		korean: KoreanTokenizer{},
		simple: SimpleTokenizer{},
	}
	ja, err := NewJapaneseTokenizer()
	if err != nil {
		slog.Error("japanese analyzer unavailable", "error", err)
	} else {
		e.japanese = ja
	}
	return e
}

// NewExtractorWith builds an extractor from explicit tokenizers (tests).
func NewExtractorWith(korean, japanese, simple Tokenizer) *Extractor {
	return &Extractor{korean: korean, japanese: japanese, simple: simple}
}

// CleanText strips URLs, email addresses and any character that is not a
// letter, digit or whitespace, then collapses runs of whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(collapseSpacesRe.ReplaceAllString(b.String(), " "))
}

// Extract tokenizes the combined texts and returns up to topN keywords
// ranked by frequency, ties broken by first appearance.
func (e *Extractor) Extract(texts []string, topN, minLength int) []KeywordCount {
	if e == nil {
		return []KeywordCount{}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	combined := CleanText(strings.Join(texts, " "))
	if combined == "" {
		return []KeywordCount{}
	}

	tok := e.tokenizerFor(combined)
	if tok == nil {
		slog.Warn("no tokenizer available, returning no keywords")
		return []KeywordCount{}
	}

	counts := make(map[string]int)
	var order []string
	for _, token := range tok.Tokens(combined) {
		if len([]rune(token)) < minLength {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if isAllDigits(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	// Stable ranking: walk first-appearance order and insertion-sort by
	// count descending, so equal counts keep encounter order.
	ranked := make([]KeywordCount, 0, len(order))
	for _, word := range order {
		ranked = append(ranked, KeywordCount{Word: word, Count: counts[word]})
	}
	stableSortByCount(ranked)

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// ExtractFromArticles assembles per-article text (title twice for double
// weight, description once, content once with truncation markers
// stripped) and analyzes the batch.
func (e *Extractor) ExtractFromArticles(articles []article.Article, topN int) ArticleKeywordResult {
	result := ArticleKeywordResult{Keywords: []KeywordCount{}}
	if len(articles) == 0 {
		return result
	}

	var texts []string
	for _, a := range articles {
		if a.Title != "" {
			texts = append(texts, a.Title, a.Title)
		}
		if a.Description != "" {
			texts = append(texts, a.Description)
		}
		if a.Content != "" {
			texts = append(texts, truncationMarkRe.ReplaceAllString(a.Content, ""))
		}
	}

	result.Keywords = e.Extract(texts, topN, DefaultMinLength)
	result.AnalyzedCount = len(articles)
	for _, kw := range result.Keywords {
		result.TotalWords += kw.Count
	}
	return result
}

func (e *Extractor) tokenizerFor(text string) Tokenizer {
	switch dominantScript(text) {
	case "ko":
		return e.korean
	case "ja":
		if e.japanese != nil {
			return e.japanese
		}
		return nil
	default:
		return e.simple
	}
}

// dominantScript classifies cleaned text by letter-script counts.
func dominantScript(text string) string {
	var hangul, kana, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana++
		}
	}
	if letters == 0 {
		return "other"
	}
	switch {
	case hangul*10 >= letters*3:
		return "ko"
	case kana*10 >= letters*2:
		return "ja"
	default:
		return "other"
	}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// stableSortByCount orders by count descending, keeping first-appearance
// order among equal counts.
func stableSortByCount(kws []KeywordCount) {
	sort.SliceStable(kws, func(i, j int) bool {
		return kws[i].Count > kws[j].Count
	})
}
