// Package textutil holds the text helpers shared by the scoring engine,
// the location classifier, and the provider adapters.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	blankLines  = regexp.MustCompile(`\n{3,}`)
	inlineSpace = regexp.MustCompile(`[ \t\f\r\x{00a0}]+`)
)

// blockTags end with a newline and openingTags also start with one, so
// paragraphs and list items stay on separate lines once the markup is gone.
const (
	blockTags   = "p, div, br, li, h1, h2, h3, h4, h5, h6, tr, ul, ol, pre, blockquote"
	openingTags = "p, div, h1, h2, h3, h4, h5, h6, ul, ol, pre, blockquote, table"
)

// StripHTML converts an HTML fragment into plain text, keeping paragraph
// breaks. Plain text input is returned with whitespace normalized.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CleanWhitespace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanWhitespace(s)
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find(blockTags).Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "br" {
			sel.ReplaceWithHtml("\n")
			return
		}
		sel.AppendHtml("\n")
	})
	// HN separates paragraphs with bare <p> tags, so those breaks double up.
	doc.Find(openingTags).Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("\n")
	})

	return CleanWhitespace(doc.Text())
}

// CleanWhitespace collapses runs of spaces, trims each line, and keeps at
// most one blank line between paragraphs.
func CleanWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	out := strings.Join(lines, "\n")
	out = blankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// FirstLine returns the first non-empty line of s.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
