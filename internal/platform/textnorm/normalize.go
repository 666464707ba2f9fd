// Package textnorm canonicalizes display strings so names coming from different
// providers compare and index the same way.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRegex    = regexp.MustCompile(`[^\p{L}\p{N}_ ]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// clubSuffixTokens are dropped by NormalizeTeamName only.
var clubSuffixTokens = map[string]struct{}{
	"fc":       {},
	"cf":       {},
	"sc":       {},
	"ac":       {},
	"afc":      {},
	"ssc":      {},
	"fk":       {},
	"sk":       {},
	"bk":       {},
	"if":       {},
	"cd":       {},
	"sv":       {},
	"vfb":      {},
	"vfl":      {},
	"club":     {},
	"united":   {},
	"city":     {},
	"calcio":   {},
	"football": {},
}

// Normalize lower-cases raw, strips diacritics, drops everything that is not a
// word character or space and collapses whitespace. It never fails.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	value := strings.ToLower(stripDiacritics(raw))
	value = whitespaceRegex.ReplaceAllString(value, " ")
	value = nonWordRegex.ReplaceAllString(value, "")
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// NormalizeTeamName is Normalize with common club suffix tokens removed, so
// "Tottenham Hotspur FC" and "Tottenham Hotspur" collapse to one key.
func NormalizeTeamName(raw string) string {
	base := Normalize(raw)
	if base == "" {
		return ""
	}

	tokens := strings.Fields(base)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := clubSuffixTokens[token]; ok {
			continue
		}
		kept = append(kept, token)
	}
	if len(kept) == 0 {
		// A name made only of suffix tokens keeps its plain form.
		return base
	}
	return strings.Join(kept, " ")
}

func stripDiacritics(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, raw)
	if err != nil {
		return raw
	}
	return out
}
