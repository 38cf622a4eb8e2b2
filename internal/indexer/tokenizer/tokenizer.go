// Package tokenizer segments UTF-8 text into normalized surface forms for
// the boolean index. It lower-cases ASCII, folds Cyrillic case and ё→е,
// skips URL and email runs entirely, and emits compound words three ways:
// the joined form, the flat form with joiners removed, and each sub-part.
package tokenizer

import (
	"bytes"
	"strings"
)

type cpClass int

const (
	cpWord cpClass = iota
	cpJoiner
	cpOther
)

// codePoint is one classified input code point. For Word and Joiner the
// normalized UTF-8 bytes are b1 (and b2 when wide); size is how many input
// bytes the code point consumed.
type codePoint struct {
	class cpClass
	b1    byte
	b2    byte
	size  int
	wide  bool
}

func isASCIIWord(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 0x20
	}
	return c
}

// isSpace matches the ASCII whitespace set used to bound URL/email runs.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isURLStart(s string, i int) bool {
	return strings.HasPrefix(s[i:], "http://") ||
		strings.HasPrefix(s[i:], "https://") ||
		strings.HasPrefix(s[i:], "www.")
}

func skipUntilSpace(s string, i int) int {
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return i
}

// normalizeCyr folds a two-byte Cyrillic sequence to lower case, mapping
// Ё and ё to е. It reports false for any 0xD0/0xD1 pair outside the
// А..я range.
func normalizeCyr(lead, trail byte) (byte, byte, bool) {
	if lead == 0xD0 && trail == 0x81 { // Ё
		return 0xD0, 0xB5, true
	}
	if lead == 0xD1 && trail == 0x91 { // ё
		return 0xD0, 0xB5, true
	}
	if lead == 0xD0 && trail >= 0x90 && trail <= 0x9F { // А..П
		return 0xD0, trail + 0x20, true
	}
	if lead == 0xD0 && trail >= 0xA0 && trail <= 0xAF { // Р..Я
		return 0xD1, trail - 0x20, true
	}
	if lead == 0xD0 && trail >= 0xB0 && trail <= 0xBF { // а..п
		return lead, trail, true
	}
	if lead == 0xD1 && trail >= 0x80 && trail <= 0x8F { // р..я
		return lead, trail, true
	}
	return 0, 0, false
}

// readCp classifies the code point starting at byte i. Malformed sequences
// advance one byte and classify as Other.
func readCp(s string, i int) codePoint {
	c := s[i]

	if c < 0x80 {
		switch {
		case c == '-':
			return codePoint{class: cpJoiner, b1: '-', size: 1}
		case c == '\'':
			return codePoint{class: cpJoiner, b1: '\'', size: 1}
		case isASCIIWord(c):
			return codePoint{class: cpWord, b1: asciiLower(c), size: 1}
		}
		return codePoint{class: cpOther, size: 1}
	}

	// En dash, em dash and right single quote act as joiners.
	if c == 0xE2 && i+2 < len(s) {
		c2, c3 := s[i+1], s[i+2]
		if c2 == 0x80 && (c3 == 0x93 || c3 == 0x94) {
			return codePoint{class: cpJoiner, b1: '-', size: 3}
		}
		if c2 == 0x80 && c3 == 0x99 {
			return codePoint{class: cpJoiner, b1: '\'', size: 3}
		}
	}

	if (c == 0xD0 || c == 0xD1) && i+1 < len(s) {
		if n1, n2, ok := normalizeCyr(c, s[i+1]); ok {
			return codePoint{class: cpWord, b1: n1, b2: n2, size: 2, wide: true}
		}
		if s[i+1]&0xC0 == 0x80 {
			return codePoint{class: cpOther, size: 2}
		}
	}

	return codePoint{class: cpOther, size: 1}
}

// Tokenize breaks text into a de-duplicated sequence of surface forms.
// Per compound word the emission order is: joined form, flat form when it
// differs, then sub-parts left to right. Forms outside 2..50 characters
// are dropped; a joined form over 50 characters suppresses the compound
// but not its qualifying sub-parts. A final pass keeps each form on first
// occurrence and drops anything under 2 or over 200 bytes.
func Tokenize(text string) []string {
	out := make([]string, 0, 256)

	var token, tokenFlat, part []byte
	var parts []string
	tokenChars, partChars := 0, 0
	tooLong, hasAny := false, false

	flushPart := func() {
		if partChars >= 2 && partChars <= 50 {
			parts = append(parts, string(part))
		}
		part = part[:0]
		partChars = 0
	}

	flushToken := func() {
		if !hasAny {
			return
		}
		flushPart()
		if !tooLong && tokenChars >= 2 && tokenChars <= 50 {
			out = append(out, string(token))
		}
		if !tooLong && len(tokenFlat) >= 2 && !bytes.Equal(tokenFlat, token) {
			out = append(out, string(tokenFlat))
		}
		out = append(out, parts...)
		token = token[:0]
		tokenFlat = tokenFlat[:0]
		parts = parts[:0]
		hasAny = false
		tokenChars = 0
		tooLong = false
	}

	discardToken := func() {
		token = token[:0]
		tokenFlat = tokenFlat[:0]
		parts = parts[:0]
		part = part[:0]
		hasAny = false
		tokenChars = 0
		partChars = 0
		tooLong = false
	}

	for i := 0; i < len(text); {
		// URL runs are discarded whole, through the next whitespace; any
		// token assembled so far is flushed first. An @ additionally
		// aborts the token mid-assembly, so no piece of an email address
		// survives.
		if isURLStart(text, i) {
			flushToken()
			i = skipUntilSpace(text, i)
			continue
		}
		if text[i] == '@' {
			discardToken()
			i = skipUntilSpace(text, i)
			continue
		}

		cp := readCp(text, i)

		switch cp.class {
		case cpWord:
			hasAny = true
			if !tooLong {
				token = append(token, cp.b1)
				tokenFlat = append(tokenFlat, cp.b1)
				if cp.wide {
					token = append(token, cp.b2)
					tokenFlat = append(tokenFlat, cp.b2)
				}
			}
			part = append(part, cp.b1)
			if cp.wide {
				part = append(part, cp.b2)
			}
			tokenChars++
			partChars++
			if tokenChars > 50 {
				tooLong = true
			}

		case cpJoiner:
			// A joiner stays inside the token only when flanked by word
			// characters on both sides; otherwise it delimits.
			j := i + cp.size
			nextIsWord := false
			if j < len(text) && !isURLStart(text, j) && text[j] != '@' {
				nextIsWord = readCp(text, j).class == cpWord
			}
			if hasAny && partChars > 0 && nextIsWord {
				if !tooLong {
					token = append(token, cp.b1)
				}
				flushPart()
				tokenChars++
				if tokenChars > 50 {
					tooLong = true
				}
			} else {
				flushToken()
			}

		default:
			flushToken()
		}

		i += cp.size
	}
	flushToken()

	seen := make(map[string]struct{}, len(out))
	uniq := make([]string, 0, len(out))
	for _, t := range out {
		if len(t) < 2 || len(t) > 200 {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	return uniq
}
