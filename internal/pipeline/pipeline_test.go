package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brieflynews/insights/internal/article"
	"github.com/brieflynews/insights/internal/keywords"
	"github.com/brieflynews/insights/internal/localize"
	"github.com/brieflynews/insights/internal/source"
)

type fakeSearcher struct {
	result *source.Result
	err    error
	gotQ   source.Query
}

func (f *fakeSearcher) Search(_ context.Context, q source.Query) (*source.Result, error) {
	f.gotQ = q
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeTranslator struct {
	err   error
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "[번역] " + text, nil
}

func newTestPipeline(s source.Searcher, tr *fakeTranslator) *Pipeline {
	ext := keywords.NewExtractorWith(keywords.KoreanTokenizer{}, nil, keywords.SimpleTokenizer{})
	return New(s, localize.New(nil, nil), tr, nil, nil, ext)
}

func TestSearchAndEnrichEmptyResult(t *testing.T) {
	s := &fakeSearcher{result: &source.Result{Total: 0, Articles: nil}}
	p := newTestPipeline(s, &fakeTranslator{})

	resp, err := p.SearchAndEnrich(context.Background(), SearchRequest{Keyword: "unicorns", Country: "kr"})
	if err != nil {
		t.Fatalf("SearchAndEnrich: %v", err)
	}
	if resp.Message == "" {
		t.Error("expected a user-facing message for an empty result")
	}
	if resp.Articles == nil {
		t.Error("articles should be an empty slice, not nil")
	}
	if len(resp.Articles) != 0 {
		t.Errorf("got %d articles, want 0", len(resp.Articles))
	}
}

func TestSearchAndEnrichSearchError(t *testing.T) {
	s := &fakeSearcher{err: errors.New("upstream down")}
	p := newTestPipeline(s, &fakeTranslator{})

	_, err := p.SearchAndEnrich(context.Background(), SearchRequest{Keyword: "news"})
	if err == nil {
		t.Fatal("expected error when the news source fails")
	}
}

func TestSearchAndEnrichTranslationFailureDegrades(t *testing.T) {
	arts := []article.Article{
		{Title: "첫 번째 기사", Description: "내용"},
		{Title: "두 번째 기사", Description: "내용"},
	}
	s := &fakeSearcher{result: &source.Result{Total: 2, Articles: arts}}
	tr := &fakeTranslator{err: errors.New("quota exceeded")}
	p := newTestPipeline(s, tr)

	resp, err := p.SearchAndEnrich(context.Background(), SearchRequest{
		Keyword:     "선거",
		Country:     "kr",
		TranslateTo: "en",
	})
	if err != nil {
		t.Fatalf("SearchAndEnrich: %v", err)
	}
	if len(resp.Articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(resp.Articles))
	}
	for i, a := range resp.Articles {
		if a.Title != arts[i].Title {
			t.Errorf("article %d title changed to %q", i, a.Title)
		}
	}
}

func TestSearchAndEnrichExtractiveSummary(t *testing.T) {
	content := "첫 문장입니다. 둘째 문장입니다. 셋째 문장입니다. 넷째 문장입니다."
	s := &fakeSearcher{result: &source.Result{Total: 1, Articles: []article.Article{
		{Title: "기사", Content: content},
	}}}
	p := newTestPipeline(s, &fakeTranslator{})

	resp, err := p.SearchAndEnrich(context.Background(), SearchRequest{
		Keyword:      "뉴스",
		Country:      "kr",
		SummaryMode:  "extractive",
		MaxSentences: 2,
	})
	if err != nil {
		t.Fatalf("SearchAndEnrich: %v", err)
	}
	if resp.Articles[0].Summary == "" {
		t.Error("extractive mode should populate the summary")
	}
	if resp.SummaryMode != SummaryModeExtractive {
		t.Errorf("summary mode = %q, want %q", resp.SummaryMode, SummaryModeExtractive)
	}
}

func TestSearchAndEnrichGPTWithoutCredential(t *testing.T) {
	s := &fakeSearcher{result: &source.Result{Total: 1, Articles: []article.Article{
		{Title: "속보 기사", Content: "본문 내용입니다."},
	}}}
	p := newTestPipeline(s, &fakeTranslator{})

	resp, err := p.SearchAndEnrich(context.Background(), SearchRequest{
		Keyword:     "속보",
		Country:     "kr",
		SummaryMode: "gpt",
	})
	if err != nil {
		t.Fatalf("SearchAndEnrich: %v", err)
	}
	if got := resp.Articles[0].SummaryType; got != "none" {
		t.Errorf("summary_type = %q, want %q", got, "none")
	}
}

func TestSearchAndEnrichLanguageFilter(t *testing.T) {
	s := &fakeSearcher{result: &source.Result{Total: 2, Articles: []article.Article{
		{Title: "한국어 기사입니다"},
		{Title: "An English headline"},
	}}}
	p := newTestPipeline(s, &fakeTranslator{})

	resp, err := p.SearchAndEnrich(context.Background(), SearchRequest{Keyword: "뉴스", Country: "kr"})
	if err != nil {
		t.Fatalf("SearchAndEnrich: %v", err)
	}
	if len(resp.Articles) != 1 {
		t.Fatalf("got %d articles after filtering, want 1", len(resp.Articles))
	}
	if !strings.Contains(resp.Articles[0].Title, "한국어") {
		t.Errorf("kept the wrong article: %q", resp.Articles[0].Title)
	}
}

func TestSearchAndEnrichUsesLocalizedQuery(t *testing.T) {
	s := &fakeSearcher{result: &source.Result{}}
	p := newTestPipeline(s, &fakeTranslator{})

	// Empty keyword for a known country resolves to its default query.
	if _, err := p.SearchAndEnrich(context.Background(), SearchRequest{Country: "kr"}); err != nil {
		t.Fatalf("SearchAndEnrich: %v", err)
	}
	if s.gotQ.Keyword == "" {
		t.Error("search query should never be empty")
	}
	if !strings.Contains(s.gotQ.Keyword, "뉴스") {
		t.Errorf("query = %q, want the Korean default", s.gotQ.Keyword)
	}
}

func TestExtractKeywords(t *testing.T) {
	p := newTestPipeline(&fakeSearcher{result: &source.Result{}}, &fakeTranslator{})

	got := p.ExtractKeywords([]string{"선거 선거 선거 개표 개표"}, 5, 2)
	if len(got) == 0 {
		t.Fatal("expected keywords")
	}
	if got[0].Word != "선거" {
		t.Errorf("top keyword = %q, want %q", got[0].Word, "선거")
	}
}
