package property

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, strips diacritics, collapses every run of
// non-alphanumeric characters into a single space and trims the result.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	lower := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lower)
	if err != nil {
		stripped = lower
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// compact is Normalize without separators, so "Vila Sol" equals "VilaSol".
func compact(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}

var romanNumerals = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10,
	"xi": 11, "xii": 12, "xiii": 13, "xiv": 14, "xv": 15, "xvi": 16, "xvii": 17, "xviii": 18, "xix": 19, "xx": 20,
}

// variantNumber parses a building-phase suffix: a roman numeral I to XX or a
// number of up to three digits.
func variantNumber(token string) (int, bool) {
	if n, ok := romanNumerals[token]; ok {
		return n, true
	}
	if len(token) == 0 || len(token) > 3 {
		return 0, false
	}
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// splitVariant separates a trailing variant suffix from the base tokens.
func splitVariant(tokens []string) (base []string, variant int, ok bool) {
	if len(tokens) < 2 {
		return tokens, 0, false
	}
	n, ok := variantNumber(tokens[len(tokens)-1])
	if !ok {
		return tokens, 0, false
	}
	return tokens[:len(tokens)-1], n, true
}

// indexRun returns the index of the first occurrence of run inside tokens, or -1.
func indexRun(tokens, run []string) int {
	if len(run) == 0 || len(run) > len(tokens) {
		return -1
	}
outer:
	for i := 0; i+len(run) <= len(tokens); i++ {
		for j := range run {
			if tokens[i+j] != run[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
