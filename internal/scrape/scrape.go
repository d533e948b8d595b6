// Package scrape fetches full article pages to replace provider-truncated
// content before summarization.
package scrape

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brieflynews/insights/internal/article"
)

var truncationMarkerRe = regexp.MustCompile(`\[\+\d+\s*chars\]`)

// selector ladder, most specific first; the first selector yielding
// paragraphs wins.
var contentSelectors = []string{
	"article p",
	".article-body p",
	".article-content p",
	".content p",
	"main p",
	".text p",
}

type Expander struct {
	httpClient *http.Client
	// minGain: scraped text shorter than the existing content plus this
	// margin is not worth swapping in.
	minGain int
}

func NewExpander(timeout time.Duration) *Expander {
	return &Expander{
		httpClient: &http.Client{Timeout: timeout},
		minGain:    100,
	}
}

// ExpandTruncated replaces the content of articles whose content carries
// a truncation marker with the scraped full text, when the page yields
// more than we already have. Any failure leaves the article untouched.
func (e *Expander) ExpandTruncated(articles []article.Article) []article.Article {
	out := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if a.URL == "" || !truncationMarkerRe.MatchString(a.Content) {
			out = append(out, a)
			continue
		}
		full, err := e.extract(a.URL)
		if err != nil {
			slog.Debug("content expansion failed, keeping truncated content", "url", a.URL, "error", err)
			out = append(out, a)
			continue
		}
		existing := truncationMarkerRe.ReplaceAllString(a.Content, "")
		if len(full) < len(existing)+e.minGain {
			out = append(out, a)
			continue
		}
		c := a.Clone()
		c.Content = full
		out = append(out, c)
	}
	return out
}

func (e *Expander) extract(url string) (string, error) {
	resp, err := e.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var paragraphs []string
	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 10 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}
	if len(paragraphs) == 0 {
		return "", fmt.Errorf("no content paragraphs found")
	}

	return strings.Join(paragraphs, "\n\n"), nil
}
