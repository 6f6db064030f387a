package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Word boundaries are spelled out instead of using \b so aliases that start
// or end with punctuation ("c++", ".net", "node.js") still match as words.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// WordPattern compiles a case-insensitive whole-word matcher for any of the
// given phrases. Phrases are escaped, so regex metacharacters are literal.
// Returns nil when no usable phrase is given.
func WordPattern(phrases ...string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		q := regexp.QuoteMeta(strings.ToLower(p))
		// Let a single space in the phrase match any whitespace run.
		q = strings.ReplaceAll(q, " ", `\s+`)
		quoted = append(quoted, q)
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + wordStart + `(?:` + strings.Join(quoted, "|") + `)` + wordEnd)
}

// Fold lowercases s and strips diacritics so "Zürich" and "zurich" compare equal.
func Fold(s string) string {
	// Chains carry state, so each call gets its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
