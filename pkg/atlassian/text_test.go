package atlassian

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerptStripsMarkup(t *testing.T) {
	got := Excerpt("<p>Welcome to the <b>handbook</b>.</p>", 200)
	if got != "Welcome to the handbook." {
		t.Fatalf("got %q", got)
	}
}

func TestExcerptCollapsesWhitespace(t *testing.T) {
	got := Excerpt("<div>  line one\n\n<span>line   two</span></div>", 200)
	if got != "line one line two" {
		t.Fatalf("got %q", got)
	}
}

func TestExcerptTruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("alpha beta gamma delta", 12)
	if got != "alpha beta..." {
		t.Fatalf("got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestExcerptCutsOnRuneBoundary(t *testing.T) {
	// No spaces, so the word-boundary cut never applies and the length
	// cut must not split a multibyte rune.
	got := Excerpt(strings.Repeat("日本語", 20), 10)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt is not valid UTF-8: %q", got)
	}
	if got != strings.Repeat("日本語", 3)+"..." {
		t.Fatalf("got %q", got)
	}
}

func TestExcerptShortTextUnchanged(t *testing.T) {
	got := Excerpt("short", 200)
	if got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestExcerptDefaultLength(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := Excerpt(long, 0)
	if len(got) > defaultExcerptLength+3 {
		t.Fatalf("excerpt too long: %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}
