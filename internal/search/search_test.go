package search

import (
	"strings"
	"testing"
)

func TestContainsCJK(t *testing.T) {
	if containsCJK("plain ascii query") {
		t.Error("ascii flagged as CJK")
	}
	if !containsCJK("排序") {
		t.Error("Han text not detected")
	}
}

func TestMakeSnippetMarksMatch(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	snip := makeSnippet(text, "fox", 5)
	if !strings.Contains(snip, ">>>fox<<<") {
		t.Errorf("match not marked: %q", snip)
	}
	if !strings.HasPrefix(snip, "...") || !strings.HasSuffix(snip, "...") {
		t.Errorf("truncation markers missing: %q", snip)
	}
}

func TestMakeSnippetCaseInsensitive(t *testing.T) {
	snip := makeSnippet("Hello World", "world", 20)
	if !strings.Contains(snip, ">>>World<<<") {
		t.Errorf("original casing not preserved: %q", snip)
	}
}

func TestMakeSnippetNoMatchReturnsHead(t *testing.T) {
	text := strings.Repeat("a", 100)
	snip := makeSnippet(text, "zzz", 10)
	if snip != strings.Repeat("a", 20)+"..." {
		t.Errorf("head snippet = %q", snip)
	}
}
