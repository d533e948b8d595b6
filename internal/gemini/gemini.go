// Package gemini holds the generative-model client used for query
// localization.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini client. Constructed once at startup and
// shared read-only across requests.
func NewClient(ctx context.Context, apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: defaultModel, timeout: timeout}, nil
}

func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// TranslateQuery translates a search keyword into the named language.
// The prompt asks for the bare term only; any OR/quote decoration the
// model adds anyway is stripped by the caller.
func (c *Client) TranslateQuery(ctx context.Context, keyword, languageName string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)

	prompt := fmt.Sprintf(
		"Translate the news search keyword below into %s.\n"+
			"Reply with the translated keyword only: a single term, no quotes, no alternatives, no explanation.\n\n"+
			"Keyword: %s",
		languageName, keyword)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	result := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if result == "" {
		return "", fmt.Errorf("empty translation from Gemini")
	}
	return result, nil
}
