package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/brieflynews/insights/internal/api"
	"github.com/brieflynews/insights/internal/cache"
	"github.com/brieflynews/insights/internal/config"
	"github.com/brieflynews/insights/internal/gemini"
	"github.com/brieflynews/insights/internal/gpt"
	"github.com/brieflynews/insights/internal/keywords"
	"github.com/brieflynews/insights/internal/localize"
	"github.com/brieflynews/insights/internal/logger"
	"github.com/brieflynews/insights/internal/pipeline"
	"github.com/brieflynews/insights/internal/retry"
	"github.com/brieflynews/insights/internal/scrape"
	"github.com/brieflynews/insights/internal/source"
	"github.com/brieflynews/insights/internal/translate"
	"github.com/brieflynews/insights/internal/wordcloud"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	translationCache := cache.New()
	defer translationCache.Close()

	translator := translate.NewGoogleClient(cfg.TranslateTimeout,
		translate.WithCache(translationCache, cfg.CacheTTL),
		translate.WithRetry(retry.Config{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
			Backoff:     true,
		}),
	)

	// Query localization ladder: Gemini first when configured, the
	// deterministic translator as the fallback rung.
	var generative localize.QueryTranslator
	if cfg.GeminiAPIKey != "" {
		gc, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiTimeout)
		if err != nil {
			slog.Warn("gemini client unavailable, query localization degrades", "error", err)
		} else {
			defer gc.Close()
			generative = gc
		}
	} else {
		slog.Info("GEMINI_API_KEY not set, skipping generative query translation")
	}
	localizer := localize.New(generative, translator)

	var searcher source.Searcher
	if cfg.NewsAPIKey != "" {
		searcher = source.NewNewsAPIClient(cfg.NewsAPIKey, cfg.NewsTimeout)
	} else {
		feeds, err := source.LoadFeeds(cfg.FeedsConfigPath)
		if err != nil {
			slog.Error("NEWS_API_KEY not set and feeds config unusable", "path", cfg.FeedsConfigPath, "error", err)
			os.Exit(1)
		}
		slog.Info("NEWS_API_KEY not set, falling back to RSS feeds", "feeds", len(feeds))
		searcher = source.NewRSSSource(feeds)
	}

	var summarizer *gpt.Summarizer
	if cfg.OpenAIAPIKey != "" {
		summarizer, err = gpt.NewSummarizer(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
		if err != nil {
			slog.Warn("openai summarizer unavailable", "error", err)
		}
	} else {
		slog.Info("OPENAI_API_KEY not set, gpt summaries disabled")
	}

	expander := scrape.NewExpander(cfg.ScrapeTimeout)
	extractor := keywords.NewExtractor()

	var renderer *wordcloud.Renderer
	if cfg.WordcloudFont != "" {
		renderer = wordcloud.NewRenderer(cfg.WordcloudDir, cfg.WordcloudFont,
			cfg.WordcloudWidth, cfg.WordcloudHeight, cfg.WordcloudMaxAge)
	} else {
		slog.Info("WORDCLOUD_FONT not set, wordcloud rendering disabled")
	}

	p := pipeline.New(searcher, localizer, translator, summarizer, expander, extractor)
	server := api.NewServer(p, renderer, cfg.ServerAddr)

	if err := server.Run(); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}
