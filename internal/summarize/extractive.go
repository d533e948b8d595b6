// Package summarize implements deterministic extractive summarization:
// salient sentences are selected by term weighting and re-joined in
// their original order. Never generates text and never returns an error.
package summarize

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/brieflynews/insights/internal/article"
)

// truncationMarkerRe matches provider artifacts like "[+1234 chars]".
var truncationMarkerRe = regexp.MustCompile(`\[\+\d+\s*chars\]`)

// prefixLimit bounds the raw-text fallback when segmentation yields nothing.
const prefixLimit = 400

// Clean strips truncation markers and collapses whitespace.
func Clean(text string) string {
	text = truncationMarkerRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Summarize picks the n most salient sentences of text, re-ordered by
// original position. Texts of n sentences or fewer come back cleaned but
// otherwise unchanged.
func Summarize(text string, n int) string {
	if n <= 0 {
		n = 3
	}
	cleaned := Clean(text)
	if cleaned == "" {
		return ""
	}

	sentences := splitSentences(cleaned)
	if len(sentences) == 0 {
		// Segmentation found no sentence boundary at all; fall back to
		// a bounded prefix of the cleaned text.
		return truncate(cleaned, prefixLimit)
	}
	if len(sentences) <= n {
		return cleaned
	}

	selected, ok := selectTop(sentences, n)
	if !ok {
		// Scoring failed; degrade to the first n sentences in order.
		slog.Debug("sentence scoring degraded to positional fallback")
		selected = sentences[:n]
	}

	return join(selected)
}

// SummarizeArticles attaches an extractive summary to each article,
// preferring content over description as input.
func SummarizeArticles(articles []article.Article, n int) []article.Article {
	out := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		text := a.Content
		if text == "" {
			text = a.Description
		}
		c := a.Clone()
		c.Summary = Summarize(text, n)
		out = append(out, c)
	}
	return out
}

// splitSentences cuts on sentence-terminal punctuation followed by
// whitespace. Terminal punctuation stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !isTerminal(r) {
			continue
		}
		// Consume a run of terminal punctuation ("?!", "...").
		end := i
		for end+1 < len(runes) && isTerminal(runes[end+1]) {
			end++
		}
		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			i = end
			continue // mid-token punctuation, e.g. "3.5" or "U.S." tails
		}
		s := strings.TrimSpace(string(runes[start : end+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end + 1
		i = end
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// selectTop scores every sentence by summed TF–ISF token weight and
// returns the n best in original order. ok is false when no usable
// scores could be computed.
func selectTop(sentences []string, n int) ([]string, bool) {
	tokenized := make([][]string, len(sentences))
	docFreq := make(map[string]int)
	for i, s := range sentences {
		tokens := tokenize(s)
		tokenized[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}
	if len(docFreq) == 0 {
		return nil, false
	}

	total := float64(len(sentences))
	scores := make([]float64, len(sentences))
	anyPositive := false
	for i, tokens := range tokenized {
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		var score float64
		for tok, freq := range tf {
			isf := math.Log(total / float64(docFreq[tok]))
			score += float64(freq) * isf
		}
		scores[i] = score
		if score > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return nil, false
	}

	// Rank indices by score (stable on ties), take n, then restore
	// narrative order.
	indices := make([]int, len(sentences))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})
	top := indices[:n]
	sort.Ints(top)

	selected := make([]string, 0, n)
	for _, idx := range top {
		selected = append(selected, sentences[idx])
	}
	return selected, true
}

func tokenize(s string) []string {
	s = strings.ToLower(s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// join glues sentences with ". " and ensures a single trailing period.
func join(sentences []string) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		parts = append(parts, strings.TrimRight(s, ".!?。！？ "))
	}
	return strings.Join(parts, ". ") + "."
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
