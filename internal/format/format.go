// Package format holds the pure text transforms used by the chat view:
// markup escaping, paragraph reflow for bot replies, clock and date
// strings, terminal sanitising and user-agent sniffing.
package format

import (
	"regexp"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces the five HTML-significant characters with their entity
// forms. html.UnescapeString(Escape(s)) == s for any s.
func Escape(text string) string {
	return escaper.Replace(text)
}

var (
	blankRun      = regexp.MustCompile(`\n{3,}`)
	sentenceBreak = regexp.MustCompile(`([.!?])\s+`)
)

// NormalizeParagraphs reflows bot text so each sentence starts on its own
// line: runs of three or more newlines collapse to a blank line, then any
// whitespace after '.', '!' or '?' becomes a single newline. This is a
// heuristic, not markup-aware formatting. Applying it twice yields the
// same result as applying it once.
func NormalizeParagraphs(text string) string {
	text = blankRun.ReplaceAllString(text, "\n\n")
	return sentenceBreak.ReplaceAllString(text, "$1\n")
}
