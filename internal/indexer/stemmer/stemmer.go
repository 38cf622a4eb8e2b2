// Package stemmer maps surface forms to stems. Tokens with hyphen or
// apostrophe joiners are stemmed per sub-part around the joiners, Cyrillic
// tokens go through a Russian Porter-style suffix stripper, and everything
// else passes through unchanged.
package stemmer

import "strings"

// Suffix groups of the Russian procedure, in match order. A candidate is
// removed only when the cut position stays inside the named region (RV or
// R2); the "а/я" groups additionally require the letter before the suffix
// to be а or я.
var (
	perfGerund    = runeSuffixes("ив", "ивши", "ившись", "ыв", "ывши", "ывшись")
	perfGerundAYa = runeSuffixes("в", "вши", "вшись")

	reflexive = runeSuffixes("ся", "сь")

	adjective = runeSuffixes(
		"ее", "ие", "ое", "ые", "ими", "ыми", "ей", "ий", "ой", "ый",
		"ем", "им", "ым", "его", "ого", "ему", "ому", "их", "ых", "ую",
		"юю", "ая", "яя", "ою", "ею",
	)
	participle    = runeSuffixes("ивш", "ывш", "ующ")
	participleAYa = runeSuffixes("ем", "нн", "вш", "ющ", "щ")

	verb = runeSuffixes(
		"ила", "ыла", "ена", "ейте", "уйте", "ите", "или", "ыли", "ей",
		"уй", "ил", "ыл", "им", "ым", "ен", "ило", "ыло", "ено", "ят",
		"ует", "уют", "ит", "ыт", "ены", "ить", "ыть", "ишь", "ую", "ю",
	)
	verbAYa = runeSuffixes(
		"ла", "на", "ете", "йте", "ли", "й", "л", "ем", "н", "ло", "но",
		"ет", "ют", "ны", "ть", "ешь", "нно",
	)

	noun = runeSuffixes(
		"а", "ев", "ов", "ие", "ье", "е", "иями", "ями", "ами", "еи",
		"ии", "и", "ией", "ей", "ой", "ий", "й", "иям", "ям", "ием",
		"ем", "ам", "ом", "о", "у", "ах", "иях", "ях", "ы", "ь", "ию",
		"ью", "ю", "ия", "я",
	)

	derivational = runeSuffixes("ость", "ост")
	superlative  = runeSuffixes("ейше", "ейш")

	suffixI  = []rune("и")
	softSign = []rune("ь")
	doubleN  = []rune("нн")
)

func runeSuffixes(ss ...string) [][]rune {
	out := make([][]rune, len(ss))
	for i, s := range ss {
		out[i] = []rune(s)
	}
	return out
}

// Stem returns the stem for a surface form. It never fails: empty input
// returns empty, and tokens the procedure cannot handle come back
// unchanged.
func Stem(token string) string {
	if !strings.ContainsAny(token, "-'") {
		return stemRu(token)
	}

	// Sub-parts between joiners are stemmed independently; the joiners
	// keep their original characters and positions.
	var out strings.Builder
	out.Grow(len(token))
	start := 0
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c != '-' && c != '\'' {
			continue
		}
		if i > start {
			out.WriteString(stemRu(token[start:i]))
		}
		out.WriteByte(c)
		start = i + 1
	}
	if start < len(token) {
		out.WriteString(stemRu(token[start:]))
	}
	return out.String()
}

// hasCyrillic reports whether the token contains a two-byte Cyrillic
// sequence (UTF-8 lead 0xD0 or 0xD1).
func hasCyrillic(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0xD0 || s[i] == 0xD1 {
			return true
		}
	}
	return false
}

func isVowel(r rune) bool {
	switch r {
	case 'а', 'е', 'и', 'о', 'у', 'ы', 'э', 'ю', 'я':
		return true
	}
	return false
}

// findRV returns the position just after the first vowel, or len(w) when
// the word has none.
func findRV(w []rune) int {
	for i, r := range w {
		if isVowel(r) {
			return i + 1
		}
	}
	return len(w)
}

// findR1 returns the position just after the first vowel-then-non-vowel
// transition at or beyond start.
func findR1(w []rune, start int) int {
	seenVowel := false
	for i := start; i < len(w); i++ {
		if isVowel(w[i]) {
			seenVowel = true
		} else if seenVowel {
			return i + 1
		}
	}
	return len(w)
}

func findR2(w []rune) int {
	return findR1(w, findR1(w, 0))
}

func endsWith(w, suf []rune) bool {
	if len(w) < len(suf) {
		return false
	}
	off := len(w) - len(suf)
	for i, r := range suf {
		if w[off+i] != r {
			return false
		}
	}
	return true
}

// trimInRegion removes suf from the end of w when the cut position lies
// within the region starting at region.
func trimInRegion(w []rune, region int, suf []rune) ([]rune, bool) {
	if len(w) < len(suf) || len(w)-len(suf) < region {
		return w, false
	}
	if !endsWith(w, suf) {
		return w, false
	}
	return w[:len(w)-len(suf)], true
}

func trimAnyInRegion(w []rune, region int, sufs [][]rune) ([]rune, bool) {
	for _, suf := range sufs {
		if w2, ok := trimInRegion(w, region, suf); ok {
			return w2, true
		}
	}
	return w, false
}

// trimAfterAYa removes suf only when the letter immediately before it is
// а or я and the cut stays within the region.
func trimAfterAYa(w []rune, region int, suf []rune) ([]rune, bool) {
	if !endsWith(w, suf) {
		return w, false
	}
	if len(w)-len(suf) < region || len(w) <= len(suf) {
		return w, false
	}
	prev := w[len(w)-len(suf)-1]
	if prev != 'а' && prev != 'я' {
		return w, false
	}
	return w[:len(w)-len(suf)], true
}

func trimAnyAfterAYa(w []rune, region int, sufs [][]rune) ([]rune, bool) {
	for _, suf := range sufs {
		if w2, ok := trimAfterAYa(w, region, suf); ok {
			return w2, true
		}
	}
	return w, false
}

// stemRu runs the Russian suffix-stripping procedure over the code-point
// view of the token. Tokens without Cyrillic, shorter than two letters, or
// without a vowel are returned unchanged.
func stemRu(token string) string {
	if !hasCyrillic(token) {
		return token
	}

	w := []rune(token)
	if len(w) < 2 {
		return token
	}

	rv := findRV(w)
	r2 := findR2(w)
	if rv >= len(w) {
		return token
	}

	// Step 1: perfective gerund.
	w, removed := trimAnyInRegion(w, rv, perfGerund)
	if !removed {
		w, removed = trimAnyAfterAYa(w, rv, perfGerundAYa)
	}

	// Step 2: reflexive, then adjectival, verbal or nominal endings.
	if !removed {
		w, _ = trimAnyInRegion(w, rv, reflexive)

		var adjRemoved bool
		w, adjRemoved = trimAnyInRegion(w, rv, adjective)
		if adjRemoved {
			var partRemoved bool
			w, partRemoved = trimAnyInRegion(w, rv, participle)
			if !partRemoved {
				w, _ = trimAnyAfterAYa(w, rv, participleAYa)
			}
		} else {
			var verbRemoved bool
			w, verbRemoved = trimAnyInRegion(w, rv, verb)
			if !verbRemoved {
				w, verbRemoved = trimAnyAfterAYa(w, rv, verbAYa)
			}
			if !verbRemoved {
				w, _ = trimAnyInRegion(w, rv, noun)
			}
		}
	}

	// Step 3: terminal и.
	w, _ = trimInRegion(w, rv, suffixI)

	// Step 4: derivational ость/ост in R2, superlative, soft sign, and
	// collapse of a trailing double н.
	w, _ = trimAnyInRegion(w, r2, derivational)

	var superRemoved bool
	w, superRemoved = trimAnyInRegion(w, rv, superlative)
	if superRemoved && endsWith(w, doubleN) {
		w = w[:len(w)-1]
	}

	var soft bool
	w, soft = trimInRegion(w, rv, softSign)
	if !soft && endsWith(w, doubleN) {
		w = w[:len(w)-1]
	}

	return string(w)
}
