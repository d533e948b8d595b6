// Package article defines the open record type carried through every
// pipeline stage. Enrichment stages add fields on a clone; unknown
// upstream fields survive JSON round-trips untouched in Extra.
package article

import "encoding/json"

// Article is a news item as returned by an upstream source, plus the
// optional fields the enrichment pipeline attaches. Fields the pipeline
// does not understand are kept in Extra and re-emitted verbatim.
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string

	// Added by the translator stage.
	TranslatedTitle       string
	TranslatedDescription string
	OriginalTitle         string
	OriginalDescription   string
	TranslationLanguage   string

	// Added by the summarizer stages. Summary and GPTSummary use
	// distinct keys so both strategies can coexist in one response.
	Summary    string
	GPTSummary string

	// SummaryType tells the caller which generative outcome applied:
	// "gpt" or "none". Empty when generative summarization was not requested.
	SummaryType string

	// Extra holds passthrough fields (source, author, published_at, ...).
	Extra map[string]any
}

// knownKeys are the JSON keys mapped onto named fields; everything else
// lands in Extra.
var knownKeys = map[string]struct{}{
	"title":                  {},
	"description":            {},
	"content":                {},
	"url":                    {},
	"translated_title":       {},
	"translated_description": {},
	"original_title":         {},
	"original_description":   {},
	"translation_language":   {},
	"summary":                {},
	"gpt_summary":            {},
	"summary_type":           {},
}

// Clone returns a shallow copy safe for additive mutation: the Extra map
// is copied so the clone can be augmented without touching the original.
func (a Article) Clone() Article {
	c := a
	if a.Extra != nil {
		c.Extra = make(map[string]any, len(a.Extra))
		for k, v := range a.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Text concatenates title and description, the text the language filter
// and similarity checks operate on.
func (a Article) Text() string {
	if a.Title == "" {
		return a.Description
	}
	if a.Description == "" {
		return a.Title
	}
	return a.Title + " " + a.Description
}

// MarshalJSON emits named fields with omitempty semantics merged with the
// passthrough bag. Named fields win on key collision.
func (a Article) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+12)
	for k, v := range a.Extra {
		out[k] = v
	}

	set := func(key, val string) {
		if val != "" {
			out[key] = val
		}
	}
	set("title", a.Title)
	set("description", a.Description)
	set("content", a.Content)
	set("url", a.URL)
	set("translated_title", a.TranslatedTitle)
	set("translated_description", a.TranslatedDescription)
	set("original_title", a.OriginalTitle)
	set("original_description", a.OriginalDescription)
	set("translation_language", a.TranslationLanguage)
	set("summary", a.Summary)
	set("gpt_summary", a.GPTSummary)
	set("summary_type", a.SummaryType)

	return json.Marshal(out)
}

// UnmarshalJSON fills named fields from their keys (tolerating null) and
// keeps every other key in Extra.
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		msg, ok := raw[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "" // null or non-string upstream value
		}
		return s
	}

	a.Title = str("title")
	a.Description = str("description")
	a.Content = str("content")
	a.URL = str("url")
	a.TranslatedTitle = str("translated_title")
	a.TranslatedDescription = str("translated_description")
	a.OriginalTitle = str("original_title")
	a.OriginalDescription = str("original_description")
	a.TranslationLanguage = str("translation_language")
	a.Summary = str("summary")
	a.GPTSummary = str("gpt_summary")
	a.SummaryType = str("summary_type")

	a.Extra = nil
	for k, msg := range raw {
		if _, known := knownKeys[k]; known {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[k] = v
	}
	return nil
}
