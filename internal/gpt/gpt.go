// Package gpt requests abstractive news summaries from an OpenAI
// chat-completion model. Batch processing distinguishes per-item
// failures (skip and continue) from quota/auth failures, where every
// further call is known to fail and the batch stops immediately.
package gpt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/brieflynews/insights/internal/article"
	"github.com/brieflynews/insights/internal/metrics"
)

const (
	defaultModel = openai.GPT4oMini
	// minSummarizeRunes: shorter text is returned unchanged, it is
	// already too short to compress.
	minSummarizeRunes = 50
	maxOutputTokens   = 300
)

// ErrNoCredential is returned when no API key was configured.
var ErrNoCredential = errors.New("openai api key is not configured")

// ChatCompleter is the slice of the OpenAI client the summarizer uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Summarizer struct {
	client  ChatCompleter
	model   string
	timeout time.Duration
}

// NewSummarizer builds a summarizer backed by the OpenAI API.
func NewSummarizer(apiKey, model string, timeout time.Duration) (*Summarizer, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if model == "" {
		model = defaultModel
	}
	return &Summarizer{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}, nil
}

// NewSummarizerWithClient injects a client directly, used by tests.
func NewSummarizerWithClient(client ChatCompleter, model string, timeout time.Duration) *Summarizer {
	if model == "" {
		model = defaultModel
	}
	return &Summarizer{client: client, model: model, timeout: timeout}
}

// SummarizeText asks the model for a summary of at most maxSentences
// sentences. Input below the minimum length is returned unchanged.
func (s *Summarizer) SummarizeText(ctx context.Context, text string, maxSentences int) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrNoCredential
	}
	if maxSentences <= 0 {
		maxSentences = 3
	}
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minSummarizeRunes {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	systemPrompt := fmt.Sprintf(`당신은 뉴스 기사 요약 전문가입니다.
주어진 뉴스 기사를 핵심 내용만 담아 %d문장 이내로 간결하게 요약하세요.
- 객관적이고 중립적인 톤 유지
- 중요한 사실과 숫자 포함
- 불필요한 수식어 제거
- 한국어로 답변`, maxSentences)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("다음 뉴스 기사를 %d문장으로 요약하세요:\n\n%s", maxSentences, trimmed),
			},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: 0.3, // low temperature for reproducible summaries
		TopP:        1.0,
	})
	if err != nil {
		return "", fmt.Errorf("gpt summary request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in gpt response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SummarizeArticles summarizes each article under gpt_summary. A
// non-fatal item error skips just that item. On a batch-fatal error the
// already-processed articles are returned together with the remaining
// articles unchanged, plus the error so the caller can report the abort;
// the slice is always complete and in input order.
func (s *Summarizer) SummarizeArticles(ctx context.Context, articles []article.Article, maxSentences int) ([]article.Article, error) {
	out := make([]article.Article, 0, len(articles))

	for i, a := range articles {
		fullText := assembleText(a)

		summary, err := s.SummarizeText(ctx, fullText, maxSentences)
		if err != nil {
			if IsBatchFatal(err) {
				slog.Warn("quota or auth failure, aborting gpt summarization batch",
					"processed", i, "remaining", len(articles)-i, "error", err)
				metrics.Global.IncrementGPTBatchAborts()
				out = append(out, articles[i:]...)
				return out, fmt.Errorf("gpt batch aborted after %d articles: %w", i, err)
			}
			slog.Error("gpt summary failed, skipping article", "index", i, "error", err)
			out = append(out, a)
			continue
		}

		c := a.Clone()
		c.GPTSummary = summary
		out = append(out, c)
		metrics.Global.IncrementGPTSummaries()
	}

	return out, nil
}

// IsBatchFatal reports whether err signals that every further call in
// the batch will fail the same way: exhausted quota or bad credentials.
func IsBatchFatal(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode == 401 {
			return true
		}
		if apiErr.Type == "insufficient_quota" {
			return true
		}
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return true
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode == 401
	}
	return false
}

// assembleText joins title, description and content the same way the
// extractive path sees them.
func assembleText(a article.Article) string {
	var b strings.Builder
	if a.Title != "" {
		b.WriteString(a.Title)
		b.WriteString(". ")
	}
	if a.Description != "" {
		b.WriteString(a.Description)
		b.WriteString(" ")
	}
	if a.Content != "" {
		b.WriteString(a.Content)
	}
	return strings.TrimSpace(b.String())
}
