package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brieflynews/insights/internal/article"
)

// fakeTranslator fails for texts listed in failOn and otherwise returns
// the text wrapped in markers.
type fakeTranslator struct {
	failOn map[string]bool
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	f.calls++
	if f.failOn[text] {
		return "", errors.New("provider error")
	}
	return "[" + targetLang + "]" + text, nil
}

func TestTranslateArticlesPreservesSizeAndOrder(t *testing.T) {
	articles := []article.Article{
		{Title: "first", Description: "d1"},
		{Title: "second", Description: "d2"},
		{Title: "third", Description: "d3"},
	}
	tr := &fakeTranslator{failOn: map[string]bool{"second": true}}

	out := TranslateArticles(context.Background(), tr, articles, "ko", DefaultFields)

	if len(out) != len(articles) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(articles))
	}
	for i := range articles {
		if out[i].Title != articles[i].Title {
			t.Errorf("order broken at %d: %q", i, out[i].Title)
		}
	}

	if out[0].TranslatedTitle != "[ko]first" {
		t.Errorf("first article not translated: %q", out[0].TranslatedTitle)
	}
	if out[0].OriginalTitle != "first" || out[0].TranslationLanguage != "ko" {
		t.Errorf("original/lang markers missing: %+v", out[0])
	}

	// The failing article passes through with no translated fields.
	if out[1].TranslatedTitle != "" || out[1].TranslatedDescription != "" || out[1].TranslationLanguage != "" {
		t.Errorf("failed article should carry no translated fields: %+v", out[1])
	}

	// The batch continued past the failure.
	if out[2].TranslatedTitle != "[ko]third" {
		t.Errorf("batch stopped after failure: %+v", out[2])
	}
}

func TestTranslateArticlesUnsupportedLanguage(t *testing.T) {
	articles := []article.Article{{Title: "hello"}}
	tr := &fakeTranslator{}

	out := TranslateArticles(context.Background(), tr, articles, "xx", DefaultFields)

	if tr.calls != 0 {
		t.Errorf("unsupported target must not call the provider, got %d calls", tr.calls)
	}
	if out[0].TranslatedTitle != "" {
		t.Errorf("article should be unchanged: %+v", out[0])
	}
}

func TestTranslateArticlesSkipsEmptyFields(t *testing.T) {
	articles := []article.Article{{Title: "only title"}}
	tr := &fakeTranslator{}

	out := TranslateArticles(context.Background(), tr, articles, "ko", DefaultFields)

	if out[0].TranslatedTitle == "" {
		t.Errorf("title should be translated")
	}
	if out[0].TranslatedDescription != "" || out[0].OriginalDescription != "" {
		t.Errorf("empty description must not produce translated fields: %+v", out[0])
	}
}

func TestGoogleClientParsesEndpointResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "ko" {
			t.Errorf("tl = %q, want ko", got)
		}
		fmt.Fprint(w, `[[["안녕하세요","hello",null,null,1]],null,"en"]`)
	}))
	defer srv.Close()

	c := NewGoogleClient(5*time.Second, WithBaseURL(srv.URL))
	got, err := c.Translate(context.Background(), "hello", "ko")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "안녕하세요" {
		t.Errorf("got %q", got)
	}
}

func TestGoogleClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGoogleClient(5*time.Second, WithBaseURL(srv.URL))
	if _, err := c.Translate(context.Background(), "hello", "ko"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", "unknown"},
		{"안녕하세요 반갑습니다", "ko"},
		{"こんにちは、ありがとう", "ja"},
		{"中文新闻内容测试", "zh-CN"},
		{"plain english text", "en"},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
