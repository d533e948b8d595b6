// Package translate wraps the free Google Translate endpoint and
// implements per-article batch translation with strict size/order
// preservation.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brieflynews/insights/internal/cache"
	"github.com/brieflynews/insights/internal/retry"
)

// maxInputRunes is the provider input cap; longer text is truncated
// before the call.
const maxInputRunes = 5000

// SupportedLanguages maps target-language codes to display names.
// Requests for anything else are passed through untranslated.
var SupportedLanguages = map[string]string{
	"ko":    "Korean",
	"en":    "English",
	"ja":    "Japanese",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"fr":    "French",
	"de":    "German",
	"es":    "Spanish",
	"ar":    "Arabic",
}

// IsSupported reports whether targetLang is a translatable target.
func IsSupported(targetLang string) bool {
	_, ok := SupportedLanguages[targetLang]
	return ok
}

// Translator is the narrow contract the pipeline depends on.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// GoogleClient calls the public Google Translate endpoint.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.TTLCache
	cacheTTL   time.Duration
	retryCfg   retry.Config
}

type Option func(*GoogleClient)

// WithBaseURL overrides the endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *GoogleClient) { c.baseURL = u }
}

// WithCache enables result caching with the given TTL.
func WithCache(c *cache.TTLCache, ttl time.Duration) Option {
	return func(g *GoogleClient) {
		g.cache = c
		g.cacheTTL = ttl
	}
}

func WithRetry(cfg retry.Config) Option {
	return func(c *GoogleClient) { c.retryCfg = cfg }
}

func NewGoogleClient(timeout time.Duration, opts ...Option) *GoogleClient {
	c := &GoogleClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://translate.googleapis.com/translate_a/single",
		retryCfg:   retry.Config{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate translates text into targetLang. Empty input and unsupported
// targets are returned as-is; provider failures return an error so the
// caller can fall back to the original text.
func (c *GoogleClient) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if !IsSupported(targetLang) {
		return text, nil
	}

	if runes := []rune(text); len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}

	key := cache.Key(text, targetLang)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	var result string
	err := retry.Do(ctx, c.retryCfg, func() error {
		translated, err := c.call(ctx, text, targetLang)
		if err != nil {
			return err
		}
		result = translated
		return nil
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.Set(key, result, c.cacheTTL)
	}
	return result, nil
}

func (c *GoogleClient) call(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return parseResponse(body)
}

// parseResponse unpacks the endpoint's nested-array payload: the first
// element holds chunks of [translatedText, originalText, ...].
func parseResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", errors.New("empty translate response")
	}

	chunks, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected translate response format")
	}

	var result strings.Builder
	for _, chunk := range chunks {
		if arr, ok := chunk.([]interface{}); ok && len(arr) > 0 {
			if translated, ok := arr[0].(string); ok {
				result.WriteString(translated)
			}
		}
	}

	if result.Len() == 0 {
		return "", errors.New("no translation in response")
	}
	return result.String(), nil
}
