// ABOUTME: Sanitizes raw process output into plain UTF-8 text for parsing.
// ABOUTME: Strips ANSI escape sequences and replaces invalid byte sequences.
package diagnostics

import (
	"regexp"
	"strings"
)

// ansiEscape matches CSI sequences (colors, cursor movement), OSC sequences
// (terminated by BEL or ST), and lone two-byte escapes.
var ansiEscape = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)?|[@-Z\\-_])`)

// Sanitize strips ANSI escape sequences from raw process output and returns
// a valid UTF-8 string. Invalid byte sequences are replaced with U+FFFD.
// Sanitize never fails; already-clean text passes through unchanged.
func Sanitize(raw []byte) string {
	stripped := ansiEscape.ReplaceAll(raw, nil)
	return strings.ToValidUTF8(string(stripped), "�")
}
