package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brieflynews/insights/internal/article"
)

const (
	defaultNewsAPIBaseURL = "https://newsapi.org/v2/everything"
	defaultSortBy         = "publishedAt"
	maxPageSize           = 100
)

// NewsAPIClient queries the NewsAPI "everything" endpoint.
type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsAPIClient(apiKey string, timeout time.Duration) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:     apiKey,
		baseURL:    defaultNewsAPIBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at a different endpoint, used by tests.
func (c *NewsAPIClient) WithBaseURL(u string) *NewsAPIClient {
	c.baseURL = u
	return c
}

type newsAPIResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []article.Article `json:"articles"`
}

func (c *NewsAPIClient) Search(ctx context.Context, q Query) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not configured")
	}

	params := url.Values{}
	params.Set("q", q.Keyword)
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}
	if len(q.Domains) > 0 {
		params.Set("domains", strings.Join(q.Domains, ","))
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	params.Set("sortBy", sortBy)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read newsapi response: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode newsapi response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Status == "error" {
		return nil, fmt.Errorf("newsapi error %s: %s", parsed.Code, parsed.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	return &Result{
		Total:    parsed.TotalResults,
		Articles: parsed.Articles,
	}, nil
}
