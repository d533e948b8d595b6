// Package source abstracts the upstream news providers behind one
// narrow search interface.
package source

import (
	"context"

	"github.com/brieflynews/insights/internal/article"
)

// Query carries the search parameters the providers understand.
// Relevance ordering is entirely the provider's business.
type Query struct {
	Keyword  string
	From     string // YYYY-MM-DD, optional
	To       string // YYYY-MM-DD, optional
	Domains  []string
	SortBy   string // provider sort key, defaults to recency
	PageSize int
}

// Result is a provider response. Zero articles with a zero total is a
// valid, non-error outcome.
type Result struct {
	Total    int
	Articles []article.Article
}

type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}
