package tokenizer

import (
	"strings"
	"testing"
)

func contains(forms []string, want string) bool {
	for _, f := range forms {
		if f == want {
			return true
		}
	}
	return false
}

func TestTokenizeBasic(t *testing.T) {
	forms := Tokenize("Привет, Мир! ABC 123.")
	for _, want := range []string{"привет", "мир", "abc", "123"} {
		if !contains(forms, want) {
			t.Errorf("Tokenize output %v missing %q", forms, want)
		}
	}
	if contains(forms, "a") {
		t.Errorf("single-character form leaked into %v", forms)
	}
}

func TestTokenizeLengthPolicy(t *testing.T) {
	long := strings.Repeat("b", 60)
	forms := Tokenize("a аб " + long)
	if contains(forms, "a") {
		t.Error("form below two characters was emitted")
	}
	if !contains(forms, "аб") {
		t.Errorf("two-character Cyrillic form missing from %v", forms)
	}
	if contains(forms, long) {
		t.Error("form above fifty characters was emitted")
	}
}

func TestTokenizeLongCompoundKeepsSubParts(t *testing.T) {
	// The joined form exceeds 50 characters, so the compound and its
	// flat form are suppressed, but qualifying sub-parts survive.
	forms := Tokenize(strings.Repeat("x", 60) + "-ab")
	if !contains(forms, "ab") {
		t.Errorf("sub-part of an oversized compound missing from %v", forms)
	}
	for _, f := range forms {
		if strings.Contains(f, strings.Repeat("x", 51)) {
			t.Errorf("oversized run leaked: %q", f)
		}
	}
}

func TestTokenizeSkipsURLsAndEmails(t *testing.T) {
	forms := Tokenize("см https://example.com/x?a=1 и test@mail.com и www.site.ru ok")
	for _, banned := range []string{"https", "example", "com", "test", "mail", "www", "site", "ru"} {
		if contains(forms, banned) {
			t.Errorf("elided run leaked %q into %v", banned, forms)
		}
	}
	if !contains(forms, "см") || !contains(forms, "ok") {
		t.Errorf("plain words around elided runs missing from %v", forms)
	}
}

func TestTokenizeCompoundEmission(t *testing.T) {
	forms := Tokenize("Санкт-Петербург")
	want := []string{"санкт-петербург", "санктпетербург", "санкт", "петербург"}
	if len(forms) != len(want) {
		t.Fatalf("got %v, want %v", forms, want)
	}
	for i, w := range want {
		if forms[i] != w {
			t.Errorf("emission order: got %q at %d, want %q", forms[i], i, w)
		}
	}
}

func TestTokenizeApostropheCompound(t *testing.T) {
	forms := Tokenize("don't rock'n'roll")
	if !contains(forms, "don't") || !contains(forms, "dont") || !contains(forms, "don") {
		t.Errorf("apostrophe compound forms missing from %v", forms)
	}
	if !contains(forms, "rock'n'roll") || !contains(forms, "rocknroll") {
		t.Errorf("multi-joiner compound forms missing from %v", forms)
	}
}

func TestTokenizeUnicodeJoiners(t *testing.T) {
	// En dash and right single quote normalize to - and '.
	forms := Tokenize("рок–группа it’s")
	if !contains(forms, "рок-группа") || !contains(forms, "рокгруппа") {
		t.Errorf("en-dash compound missing from %v", forms)
	}
	if !contains(forms, "it's") {
		t.Errorf("right-single-quote compound missing from %v", forms)
	}
}

func TestTokenizeYoNormalization(t *testing.T) {
	forms := Tokenize("ЁЛКА ёлка ЕЛКА")
	if !contains(forms, "елка") {
		t.Errorf("ё normalization failed: %v", forms)
	}
	if contains(forms, "ёлка") {
		t.Errorf("raw ё leaked into %v", forms)
	}
	if len(forms) != 1 {
		t.Errorf("duplicates not collapsed: %v", forms)
	}
}

func TestTokenizeDanglingJoinerDelimits(t *testing.T) {
	forms := Tokenize("-аб вг- -")
	if !contains(forms, "аб") || !contains(forms, "вг") {
		t.Errorf("words around dangling joiners missing from %v", forms)
	}
	for _, f := range forms {
		if strings.ContainsAny(f, "-") {
			t.Errorf("dangling joiner kept inside %q", f)
		}
	}
}

func TestTokenizeNoDuplicatesAndByteBounds(t *testing.T) {
	forms := Tokenize("газ газ газ нефть газ и нефть")
	seen := make(map[string]struct{})
	for _, f := range forms {
		if _, dup := seen[f]; dup {
			t.Errorf("duplicate form %q in %v", f, forms)
		}
		seen[f] = struct{}{}
		if len(f) < 2 || len(f) > 200 {
			t.Errorf("form %q outside byte bounds", f)
		}
	}
}

func TestTokenizeMalformedBytes(t *testing.T) {
	// Truncated and stray continuation bytes classify as separators.
	forms := Tokenize("аб\xd0 вг\xff\x80 de")
	for _, want := range []string{"аб", "вг", "de"} {
		if !contains(forms, want) {
			t.Errorf("words around malformed bytes missing from %v", forms)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("Санкт-Петербург крупнейший северный город мира 2025 "+
		"см https://example.com/path?q=1 нефть и газ европа машины мотор ", 20)
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = Tokenize(text)
	}
}
