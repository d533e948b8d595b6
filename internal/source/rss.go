package source

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/brieflynews/insights/internal/article"
)

// FeedsConfig is the YAML feed list:
//
//	feeds:
//	  - https://example.com/rss
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed list from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// RSSSource is a keyless fallback provider: it matches the keyword
// against configured feeds. Used when no NewsAPI credential is present.
type RSSSource struct {
	feeds  []string
	parser *gofeed.Parser
}

func NewRSSSource(feeds []string) *RSSSource {
	return &RSSSource{
		feeds:  feeds,
		parser: gofeed.NewParser(),
	}
}

func (s *RSSSource) Search(ctx context.Context, q Query) (*Result, error) {
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))

	var matched []article.Article
	okFeeds := 0
	for _, feedURL := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			slog.Warn("rss feed failed, continuing", "url", feedURL, "error", err)
			continue
		}
		okFeeds++
		for _, item := range feed.Items {
			if !matchesKeyword(item, keyword) {
				continue
			}
			matched = append(matched, itemToArticle(item, feed.Title))
		}
	}
	slog.Debug("rss search finished", "feeds_ok", okFeeds, "feeds_total", len(s.feeds), "matched", len(matched))

	total := len(matched)
	pageSize := q.PageSize
	if pageSize > 0 && len(matched) > pageSize {
		matched = matched[:pageSize]
	}
	return &Result{Total: total, Articles: matched}, nil
}

func matchesKeyword(item *gofeed.Item, keyword string) bool {
	if keyword == "" {
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Description)
	for _, term := range strings.Fields(keyword) {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func itemToArticle(item *gofeed.Item, feedTitle string) article.Article {
	a := article.Article{
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		URL:         item.Link,
		Extra:       map[string]any{},
	}
	if feedTitle != "" {
		a.Extra["source"] = map[string]any{"name": feedTitle}
	}
	if item.Published != "" {
		a.Extra["publishedAt"] = item.Published
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		a.Extra["author"] = item.Authors[0].Name
	}
	return a
}
