package translate

import (
	"context"
	"log/slog"

	"github.com/brieflynews/insights/internal/article"
	"github.com/brieflynews/insights/internal/metrics"
)

// Field names the batch translator knows how to handle.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
)

// DefaultFields is the usual title+description selection.
var DefaultFields = []string{FieldTitle, FieldDescription}

// TranslateArticles translates the requested fields of every article
// into targetLang. Guarantees:
//
//   - output has exactly one entry per input, in input order;
//   - a failing article is passed through untouched (no translated
//     fields) and does not stop the batch;
//   - an unsupported targetLang returns the input unchanged.
func TranslateArticles(ctx context.Context, tr Translator, articles []article.Article, targetLang string, fields []string) []article.Article {
	if len(articles) == 0 {
		return articles
	}
	if !IsSupported(targetLang) {
		slog.Warn("unsupported translation target, skipping", "target_lang", targetLang)
		return articles
	}
	if len(fields) == 0 {
		fields = DefaultFields
	}

	slog.Info("translating articles", "count", len(articles), "target_lang", targetLang)

	out := make([]article.Article, 0, len(articles))
	successCount := 0

	for i, a := range articles {
		translated, err := translateOne(ctx, tr, a, targetLang, fields)
		if err != nil {
			slog.Error("article translation failed, passing original through",
				"index", i, "error", err)
			metrics.Global.IncrementFailedTranslations()
			out = append(out, a)
			continue
		}
		metrics.Global.IncrementSuccessfulTranslations()
		successCount++
		out = append(out, translated)
	}

	slog.Info("translation finished", "ok", successCount, "total", len(articles))
	return out
}

func translateOne(ctx context.Context, tr Translator, a article.Article, targetLang string, fields []string) (article.Article, error) {
	c := a.Clone()

	for _, field := range fields {
		switch field {
		case FieldTitle:
			if a.Title == "" {
				continue
			}
			translated, err := tr.Translate(ctx, a.Title, targetLang)
			if err != nil {
				return article.Article{}, err
			}
			c.TranslatedTitle = translated
			c.OriginalTitle = a.Title
		case FieldDescription:
			if a.Description == "" {
				continue
			}
			translated, err := tr.Translate(ctx, a.Description, targetLang)
			if err != nil {
				return article.Article{}, err
			}
			c.TranslatedDescription = translated
			c.OriginalDescription = a.Description
		}
	}

	c.TranslationLanguage = targetLang
	return c, nil
}
