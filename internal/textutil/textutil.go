// Package textutil provides text processing utilities for field signal
// normalization and vectorization.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts word tokens from text (Unicode-aware).
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// Ngrams returns min_n to max_n character-level n-grams of the given string.
func Ngrams(s string, minN, maxN int) []string {
	runes := []rune(s)
	textLen := len(runes)
	var res []string
	for n := minN; n <= maxN && n <= textLen; n++ {
		for i := 0; i <= textLen-n; i++ {
			res = append(res, string(runes[i:i+n]))
		}
	}
	return res
}

// TokenNgrams returns n-grams from a list of tokens, joined by space.
func TokenNgrams(tokens []string, minN, maxN int) []string {
	tLen := len(tokens)
	var res []string
	for n := minN; n <= maxN && n <= tLen; n++ {
		for i := 0; i <= tLen-n; i++ {
			res = append(res, strings.Join(tokens[i:i+n], " "))
		}
	}
	return res
}

var (
	separatorRe  = regexp.MustCompile(`[*\-_./\\|]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripDiacritics removes Unicode combining marks ("endereço" -> "endereco").
// Returns the input unchanged if the transform fails.
func StripDiacritics(text string) string {
	out, _, err := transform.String(diacriticStripper, text)
	if err != nil {
		return text
	}
	return out
}

// Normalize turns raw field metadata into a normalized signal string:
// lowercase, diacritics stripped, separators replaced by spaces, whitespace
// runs collapsed, trimmed. Total and idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = StripDiacritics(text)
	text = separatorRe.ReplaceAllString(text, " ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ContainsWord reports whether word occurs in text with no alphanumeric rune
// adjacent on either side. Both arguments are expected to be normalized.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; ; {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			return false
		}
		idx += from
		if boundaryBefore(text, idx) && boundaryAfter(text, idx+len(word)) {
			return true
		}
		from = idx + 1
	}
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r := lastRune(text[:idx])
	return !isAlnum(r)
}

func boundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r := firstRune(text[idx:])
	return !isAlnum(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
