package stemmer

import "testing"

func assertSameStem(t *testing.T, forms ...string) {
	t.Helper()
	base := Stem(forms[0])
	if base == "" {
		t.Fatalf("Stem(%q) returned empty", forms[0])
	}
	for _, f := range forms[1:] {
		if got := Stem(f); got != base {
			t.Errorf("Stem(%q) = %q, want %q (as for %q)", f, got, base, forms[0])
		}
	}
}

func TestRussianSameStemGroups(t *testing.T) {
	assertSameStem(t, "машина", "машины", "машиной", "машину", "машине")
	assertSameStem(t, "возможность", "возможности", "возможностью")
	assertSameStem(t, "реализация", "реализации", "реализацией")
	assertSameStem(t, "документ", "документы", "документа", "документом")
	assertSameStem(t, "поиск", "поиска", "поиском", "поиске")
	assertSameStem(t, "индексация", "индексации", "индексацией")
}

func TestRussianKnownStems(t *testing.T) {
	cases := map[string]string{
		"нефть":       "нефт",
		"газа":        "газ",
		"европа":      "европ",
		"санкции":     "санкц",
		"россия":      "росс",
		"машины":      "машин",
		"возможность": "возможн",
		"елка":        "елк",
		"мотор":       "мотор",
		"квазар":      "квазар",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStemIdempotent(t *testing.T) {
	words := []string{
		"машина", "машины", "машиной", "возможность", "возможностью",
		"реализация", "документы", "поиска", "индексацией", "нефть",
		"газ", "европа", "санкции", "россия", "мотор", "привет", "мир",
	}
	for _, w := range words {
		once := Stem(w)
		if twice := Stem(once); twice != once {
			t.Errorf("Stem not idempotent on %q: %q -> %q", w, once, twice)
		}
	}
}

func TestNonCyrillicPassthrough(t *testing.T) {
	for _, w := range []string{"running", "studies", "2025", "covid19", "abc"} {
		if got := Stem(w); got != w {
			t.Errorf("Stem(%q) = %q, want unchanged", w, got)
		}
	}
}

func TestNoVowelUnchanged(t *testing.T) {
	if got := Stem("мгнвн"); got != "мгнвн" {
		t.Errorf("vowel-less token changed: %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	if got := Stem(""); got != "" {
		t.Errorf("Stem(\"\") = %q", got)
	}
}

func TestJoinerAwareStemming(t *testing.T) {
	if got := Stem("санкт-петербург"); got != "санкт-петербург" {
		t.Errorf("Stem(санкт-петербург) = %q", got)
	}
	if got := Stem("rock'n'roll"); got != "rock'n'roll" {
		t.Errorf("Stem(rock'n'roll) = %q", got)
	}
	// Each sub-part stems independently around the original joiners.
	if got := Stem("машины-моторы"); got != "машин-мотор" {
		t.Errorf("Stem(машины-моторы) = %q", got)
	}
}

func TestConsecutiveJoinersPreserved(t *testing.T) {
	if got := Stem("аб--вг"); got != "аб--вг" {
		t.Errorf("Stem(аб--вг) = %q", got)
	}
	if got := Stem("-аб"); got != "-аб" {
		t.Errorf("leading joiner not preserved: %q", got)
	}
}

func TestReflexiveAndVerbEndings(t *testing.T) {
	assertSameStem(t, "читала", "читать", "читают")
	assertSameStem(t, "делался", "делалась")
}

func BenchmarkStem(b *testing.B) {
	words := []string{
		"возможностью", "машинами", "реализация", "документами",
		"санкт-петербург", "running", "поиском", "индексацией",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			_ = Stem(w)
		}
	}
}
