package langfilter

import (
	"testing"

	"github.com/brieflynews/insights/internal/article"
)

func TestFilterKeepsMatchingScript(t *testing.T) {
	articles := []article.Article{
		{Title: "선거 결과 발표", Description: "개표가 진행 중입니다"},
		{Title: "Election results", Description: "Counting continues"},
		{Title: "Mixed 선거 headline", Description: ""},
	}

	out := Filter(articles, "kr")

	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Title != "선거 결과 발표" || out[1].Title != "Mixed 선거 headline" {
		t.Errorf("wrong articles kept: %+v", out)
	}
}

func TestFilterNeverEmptiesNonEmptyBatch(t *testing.T) {
	articles := []article.Article{
		{Title: "English only", Description: "no hangul here"},
		{Title: "Another one", Description: "still latin"},
	}

	out := Filter(articles, "kr")

	if len(out) != len(articles) {
		t.Fatalf("filter emptied the batch: got %d articles", len(out))
	}
}

func TestFilterUnknownCountryPassesThrough(t *testing.T) {
	articles := []article.Article{
		{Title: "anything"},
		{Title: "何でも"},
	}

	out := Filter(articles, "zz")

	if len(out) != 2 {
		t.Fatalf("unknown country must pass through, got %d", len(out))
	}
}

func TestFilterJapaneseAcceptsKanaAndKanji(t *testing.T) {
	articles := []article.Article{
		{Title: "ニュース速報"},
		{Title: "latin title"},
		{Title: "漢字のみ"},
	}

	out := Filter(articles, "jp")

	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}

func TestFilterEmptyInput(t *testing.T) {
	if out := Filter(nil, "kr"); len(out) != 0 {
		t.Errorf("nil input should stay empty, got %v", out)
	}
}
