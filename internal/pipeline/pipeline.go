// Package pipeline orchestrates the article-enrichment stages: query
// localization, fetch, language filtering, translation and one of the
// two summarization strategies. Every enrichment is additive and
// independently recoverable; a failed stage degrades the response, it
// never fails the request.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brieflynews/insights/internal/article"
	"github.com/brieflynews/insights/internal/gpt"
	"github.com/brieflynews/insights/internal/keywords"
	"github.com/brieflynews/insights/internal/langfilter"
	"github.com/brieflynews/insights/internal/localize"
	"github.com/brieflynews/insights/internal/metrics"
	"github.com/brieflynews/insights/internal/scrape"
	"github.com/brieflynews/insights/internal/source"
	"github.com/brieflynews/insights/internal/summarize"
	"github.com/brieflynews/insights/internal/translate"
)

// Summarization modes a request may ask for; generative and extractive
// are mutually exclusive per request.
const (
	SummaryModeNone       = "none"
	SummaryModeExtractive = "extractive"
	SummaryModeGPT        = "gpt"
)

const emptyResultMessage = "검색 결과가 없습니다. 다른 키워드로 시도해 보세요."

type SearchRequest struct {
	Keyword      string
	Country      string
	TranslateTo  string // empty disables translation
	From         string
	To           string
	PageSize     int
	SummaryMode  string // none | extractive | gpt
	MaxSentences int
}

type SearchResponse struct {
	Articles            []article.Article `json:"articles"`
	Total               int               `json:"total"`
	Country             string            `json:"country,omitempty"`
	TranslationLanguage string            `json:"translation_language,omitempty"`
	SummaryMode         string            `json:"summary_mode"`
	Message             string            `json:"message,omitempty"`
}

type Pipeline struct {
	searcher   source.Searcher
	localizer  *localize.Localizer
	translator translate.Translator
	summarizer *gpt.Summarizer // nil when no credential is configured
	expander   *scrape.Expander
	extractor  *keywords.Extractor
}

func New(
	searcher source.Searcher,
	localizer *localize.Localizer,
	translator translate.Translator,
	summarizer *gpt.Summarizer,
	expander *scrape.Expander,
	extractor *keywords.Extractor,
) *Pipeline {
	return &Pipeline{
		searcher:   searcher,
		localizer:  localizer,
		translator: translator,
		summarizer: summarizer,
		expander:   expander,
		extractor:  extractor,
	}
}

// SearchAndEnrich runs the full pipeline for one request. Only a failed
// fetch is an error; every later stage degrades in place.
func (p *Pipeline) SearchAndEnrich(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()
	defer func() { metrics.Global.RecordProcessingTime(time.Since(start)) }()
	metrics.Global.IncrementSearchRequests()

	query := req.Keyword
	if p.localizer != nil {
		query = p.localizer.Localize(ctx, req.Keyword, req.Country)
	}
	slog.Info("news search", "keyword", req.Keyword, "query", query, "country", req.Country)

	res, err := p.searcher.Search(ctx, source.Query{
		Keyword:  query,
		From:     req.From,
		To:       req.To,
		PageSize: req.PageSize,
	})
	if err != nil {
		metrics.Global.SetError(err.Error())
		return nil, fmt.Errorf("news search failed: %w", err)
	}
	metrics.Global.AddArticlesFetched(len(res.Articles))

	mode := normalizeMode(req.SummaryMode)
	resp := &SearchResponse{
		Total:       res.Total,
		Country:     strings.ToLower(strings.TrimSpace(req.Country)),
		SummaryMode: mode,
	}

	if len(res.Articles) == 0 {
		resp.Articles = []article.Article{}
		resp.Message = emptyResultMessage
		metrics.Global.SetLastRun()
		return resp, nil
	}

	articles := langfilter.Filter(res.Articles, req.Country)
	metrics.Global.AddArticlesFiltered(len(res.Articles) - len(articles))

	if req.TranslateTo != "" {
		articles = translate.TranslateArticles(ctx, p.translator, articles, req.TranslateTo, translate.DefaultFields)
		if translate.IsSupported(req.TranslateTo) {
			resp.TranslationLanguage = req.TranslateTo
		}
	}

	maxSentences := req.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 3
	}

	switch mode {
	case SummaryModeExtractive:
		articles = summarize.SummarizeArticles(articles, maxSentences)
	case SummaryModeGPT:
		articles = p.generativeSummaries(ctx, articles, maxSentences)
	}

	resp.Articles = articles
	metrics.Global.SetLastRun()
	return resp, nil
}

// generativeSummaries runs the gpt batch and marks every article with
// the summary_type discriminator so the caller can tell "failed" from
// "not attempted for this article".
func (p *Pipeline) generativeSummaries(ctx context.Context, articles []article.Article, maxSentences int) []article.Article {
	if p.summarizer == nil {
		slog.Warn("gpt summarization requested but no credential configured")
		return markSummaryType(articles)
	}
	if p.expander != nil {
		articles = p.expander.ExpandTruncated(articles)
	}

	out, err := p.summarizer.SummarizeArticles(ctx, articles, maxSentences)
	if err != nil {
		// Batch abort: out still holds every article, processed or not.
		slog.Error("gpt summarization degraded", "error", err)
	}
	return markSummaryType(out)
}

func markSummaryType(articles []article.Article) []article.Article {
	out := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		c := a.Clone()
		if c.GPTSummary != "" {
			c.SummaryType = "gpt"
		} else {
			c.SummaryType = "none"
		}
		out = append(out, c)
	}
	return out
}

func normalizeMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case SummaryModeGPT:
		return SummaryModeGPT
	case SummaryModeExtractive:
		return SummaryModeExtractive
	default:
		return SummaryModeNone
	}
}

// ExtractKeywords analyzes raw texts; independently invokable from the
// search pipeline.
func (p *Pipeline) ExtractKeywords(texts []string, topN, minLength int) []keywords.KeywordCount {
	metrics.Global.IncrementKeywordRuns()
	return p.extractor.Extract(texts, topN, minLength)
}

// ExtractArticleKeywords analyzes article-shaped records.
func (p *Pipeline) ExtractArticleKeywords(articles []article.Article, topN int) keywords.ArticleKeywordResult {
	metrics.Global.IncrementKeywordRuns()
	return p.extractor.ExtractFromArticles(articles, topN)
}
