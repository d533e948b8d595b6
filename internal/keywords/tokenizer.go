package keywords

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"
)

// Tokenizer extracts candidate keyword tokens from cleaned text. A nil
// Tokenizer means the analyzer for that language is unavailable.
type Tokenizer interface {
	Tokens(text string) []string
}

// SimpleTokenizer splits on whitespace, lower-casing Latin tokens.
type SimpleTokenizer struct{}

func (SimpleTokenizer) Tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

// koreanParticles are common josa suffixes stripped from the end of a
// Hangul word to approximate noun extraction. Longest first so compound
// particles win over their single-syllable tails.
var koreanParticles = []string{
	"에서는", "으로는", "이라고", "에게서",
	"에서", "에게", "한테", "으로", "이나", "라고", "부터", "까지", "처럼", "보다", "마다",
	"은", "는", "이", "가", "을", "를", "의", "에", "도", "와", "과", "로", "만",
}

// KoreanTokenizer approximates morphological noun extraction by
// stripping trailing particles from Hangul words. It is the stand-in
// for a full analyzer, which has no cgo-free Go implementation.
type KoreanTokenizer struct{}

func (KoreanTokenizer) Tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, stripParticle(f))
	}
	return out
}

func stripParticle(word string) string {
	if !isHangulWord(word) {
		return strings.ToLower(word)
	}
	for _, p := range koreanParticles {
		if !strings.HasSuffix(word, p) {
			continue
		}
		stem := strings.TrimSuffix(word, p)
		// Keep at least one syllable of stem; "이" alone is a word,
		// not a particle on nothing.
		if len([]rune(stem)) >= 1 {
			return stem
		}
	}
	return word
}

func isHangulWord(word string) bool {
	for _, r := range word {
		if !unicode.Is(unicode.Hangul, r) {
			return false
		}
	}
	return word != ""
}

// JapaneseTokenizer extracts nouns via kagome morphological analysis.
type JapaneseTokenizer struct {
	tok *kagome.Tokenizer
}

// NewJapaneseTokenizer loads the IPA dictionary. An initialization
// failure is reported so the caller can degrade to no analyzer.
func NewJapaneseTokenizer() (*JapaneseTokenizer, error) {
	tok, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &JapaneseTokenizer{tok: tok}, nil
}

func (j *JapaneseTokenizer) Tokens(text string) []string {
	if j == nil || j.tok == nil {
		return nil
	}
	var out []string
	for _, t := range j.tok.Tokenize(text) {
		features := t.Features()
		if len(features) > 0 && features[0] == "名詞" {
			out = append(out, t.Surface)
		}
	}
	return out
}
