package util

import "testing"

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  Etherium price?! ")
	if got != "etherium price" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestNormalizeTextKeepsDots(t *testing.T) {
	got := NormalizeText("what about Fetch.ai today")
	if got != "what about fetch.ai today" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestContainsPhraseWordBoundary(t *testing.T) {
	if !ContainsPhrase("analyze bitcoin for me", "bitcoin") {
		t.Fatalf("expected phrase match")
	}
	if ContainsPhrase("maintain the chain", "ai") {
		t.Fatalf("substring must not match")
	}
	if !ContainsPhrase("bitcoin cash outlook", "bitcoin cash") {
		t.Fatalf("expected multi-word phrase match")
	}
}

func TestContainsPhraseAtEnds(t *testing.T) {
	if !ContainsPhrase("doge", "doge") {
		t.Fatalf("expected exact match")
	}
	if !ContainsPhrase("buy doge", "doge") {
		t.Fatalf("expected match at end")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Fatalf("unexpected truncate %q", got)
	}
}
