package gpt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/brieflynews/insights/internal/article"
)

// fakeChat returns scripted responses/errors keyed by call index.
type fakeChat struct {
	errs  map[int]error
	calls int
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	idx := f.calls
	f.calls++
	if err, ok := f.errs[idx]; ok {
		return openai.ChatCompletionResponse{}, err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "요약 " + req.Model}},
		},
	}, nil
}

func longArticle(title string) article.Article {
	return article.Article{
		Title:   title,
		Content: strings.Repeat("내용이 충분히 길어야 요약 대상이 됩니다. ", 10),
	}
}

func TestNewSummarizerRequiresCredential(t *testing.T) {
	if _, err := NewSummarizer("", "", time.Second); !errors.Is(err, ErrNoCredential) {
		t.Errorf("err = %v, want ErrNoCredential", err)
	}
}

func TestSummarizeTextShortInputReturnedUnchanged(t *testing.T) {
	chat := &fakeChat{}
	s := NewSummarizerWithClient(chat, "", time.Second)

	got, err := s.SummarizeText(context.Background(), "짧은 글", 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != "짧은 글" {
		t.Errorf("got %q, want input unchanged", got)
	}
	if chat.calls != 0 {
		t.Errorf("short input must not reach the model, calls = %d", chat.calls)
	}
}

func TestSummarizeArticlesSkipsTransientFailures(t *testing.T) {
	chat := &fakeChat{errs: map[int]error{1: errors.New("connection reset")}}
	s := NewSummarizerWithClient(chat, "", time.Second)

	articles := []article.Article{longArticle("a"), longArticle("b"), longArticle("c")}
	out, err := s.SummarizeArticles(context.Background(), articles, 3)
	if err != nil {
		t.Fatalf("transient failure must not abort the batch: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].GPTSummary == "" || out[2].GPTSummary == "" {
		t.Errorf("succeeding items should be summarized: %+v", out)
	}
	if out[1].GPTSummary != "" {
		t.Errorf("failed item should pass through unenriched: %+v", out[1])
	}
	if chat.calls != 3 {
		t.Errorf("calls = %d, want 3", chat.calls)
	}
}

func TestSummarizeArticlesQuotaAbortsBatch(t *testing.T) {
	quotaErr := &openai.APIError{HTTPStatusCode: 429, Type: "insufficient_quota"}
	chat := &fakeChat{errs: map[int]error{2: quotaErr}}
	s := NewSummarizerWithClient(chat, "", time.Second)

	articles := []article.Article{
		longArticle("a"), longArticle("b"), longArticle("c"),
		longArticle("d"), longArticle("e"),
	}
	out, err := s.SummarizeArticles(context.Background(), articles, 3)
	if err == nil {
		t.Fatal("expected batch-abort error")
	}

	if len(out) != 5 {
		t.Fatalf("len = %d, want all 5 articles back", len(out))
	}
	// Items 1-2 succeeded before the abort.
	if out[0].GPTSummary == "" || out[1].GPTSummary == "" {
		t.Errorf("processed items should keep summaries: %+v", out[:2])
	}
	// Items 3-5 come back unchanged with no further calls attempted.
	for i := 2; i < 5; i++ {
		if out[i].GPTSummary != "" {
			t.Errorf("item %d should be unenriched", i)
		}
		if out[i].Title != articles[i].Title {
			t.Errorf("item %d order broken", i)
		}
	}
	if chat.calls != 3 {
		t.Errorf("calls = %d, want 3 (no call for items 4-5)", chat.calls)
	}
}

func TestSummarizeArticlesAuthAbortsBatch(t *testing.T) {
	authErr := &openai.APIError{HTTPStatusCode: 401}
	chat := &fakeChat{errs: map[int]error{0: authErr}}
	s := NewSummarizerWithClient(chat, "", time.Second)

	articles := []article.Article{longArticle("a"), longArticle("b")}
	out, err := s.SummarizeArticles(context.Background(), articles, 3)
	if err == nil {
		t.Fatal("expected batch-abort error")
	}
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if chat.calls != 1 {
		t.Errorf("calls = %d, want 1", chat.calls)
	}
}

func TestIsBatchFatal(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&openai.APIError{HTTPStatusCode: 429}, true},
		{&openai.APIError{HTTPStatusCode: 401}, true},
		{&openai.APIError{HTTPStatusCode: 500}, false},
		{&openai.APIError{Type: "insufficient_quota"}, true},
		{&openai.RequestError{HTTPStatusCode: 429}, true},
		{errors.New("dial tcp: timeout"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsBatchFatal(tc.err); got != tc.want {
			t.Errorf("IsBatchFatal(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
