package format

import (
	"regexp"
	"strings"
	"unicode"
)

// CSI and OSC sequences. Anything else starting with ESC loses its ESC
// byte in the control-character pass below.
var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// SanitizeTerminal strips escape sequences and control characters (other
// than newline and tab) so text from any source can be written into the
// terminal view without moving the cursor, recolouring, or retitling the
// window.
func SanitizeTerminal(text string) string {
	text = ansiSeq.ReplaceAllString(text, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}
