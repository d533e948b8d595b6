package localize

import (
	"context"
	"errors"
	"testing"
)

type fakeGenerative struct {
	result string
	err    error
	calls  int
}

func (f *fakeGenerative) TranslateQuery(_ context.Context, keyword, languageName string) (string, error) {
	f.calls++
	return f.result, f.err
}

type fakeDeterministic struct {
	result string
	err    error
	calls  int
}

func (f *fakeDeterministic) Translate(_ context.Context, text, targetLang string) (string, error) {
	f.calls++
	return f.result, f.err
}

func TestEmptyKeywordUsesCountryDefault(t *testing.T) {
	l := New(nil, nil)

	if got := l.Localize(context.Background(), "", "kr"); got != "뉴스 OR 속보 OR 오늘" {
		t.Errorf("kr default = %q", got)
	}
	if got := l.Localize(context.Background(), "", "KR"); got != "뉴스 OR 속보 OR 오늘" {
		t.Errorf("country code should be case-insensitive, got %q", got)
	}
}

func TestEmptyKeywordUnknownCountryFallsBackToNews(t *testing.T) {
	l := New(nil, nil)
	if got := l.Localize(context.Background(), "", "zz"); got != "news" {
		t.Errorf("got %q, want \"news\"", got)
	}
}

func TestLocalizeNeverReturnsEmpty(t *testing.T) {
	l := New(
		&fakeGenerative{err: errors.New("quota")},
		&fakeDeterministic{err: errors.New("down")},
	)
	for _, country := range []string{"kr", "jp", "us", "zz", ""} {
		if got := l.Localize(context.Background(), "", country); got == "" {
			t.Errorf("empty result for country %q", country)
		}
		if got := l.Localize(context.Background(), "election", country); got == "" {
			t.Errorf("empty result for keyword with country %q", country)
		}
	}
}

func TestGenerativeRungWinsWhenItSucceeds(t *testing.T) {
	gen := &fakeGenerative{result: "선거"}
	det := &fakeDeterministic{result: "투표"}
	l := New(gen, det)

	if got := l.Localize(context.Background(), "election", "kr"); got != "선거" {
		t.Errorf("got %q, want generative result", got)
	}
	if det.calls != 0 {
		t.Errorf("deterministic rung should not run when generative succeeds")
	}
}

func TestFallsBackToDeterministicThenOriginal(t *testing.T) {
	gen := &fakeGenerative{err: errors.New("timeout")}
	det := &fakeDeterministic{result: "선거"}
	l := New(gen, det)

	if got := l.Localize(context.Background(), "election", "kr"); got != "선거" {
		t.Errorf("got %q, want deterministic result", got)
	}

	det.err = errors.New("down")
	det.result = ""
	if got := l.Localize(context.Background(), "election", "kr"); got != "election" {
		t.Errorf("got %q, want original keyword", got)
	}
}

func TestNormalizationAppliedToGenerativeOutput(t *testing.T) {
	gen := &fakeGenerative{result: `"선거" OR "투표"`}
	l := New(gen, nil)

	if got := l.Localize(context.Background(), "election", "kr"); got != "선거 투표" {
		t.Errorf("got %q, want OR/quotes stripped", got)
	}
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"election"`, "election"},
		{`election OR vote`, "election vote"},
		{`'élection' || vote`, "élection vote"},
		{` “선거”  OR  “투표” `, "선거 투표"},
		{`word`, "word"},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnknownCountryWithKeywordSkipsTranslation(t *testing.T) {
	gen := &fakeGenerative{result: "translated"}
	l := New(gen, nil)

	if got := l.Localize(context.Background(), "election", "zz"); got != "election" {
		t.Errorf("got %q, want original keyword for unknown country", got)
	}
	if gen.calls != 0 {
		t.Errorf("no rung should run without a language mapping")
	}
}
