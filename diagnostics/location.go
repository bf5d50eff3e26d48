// ABOUTME: Recognizes diagnostic source-location marker lines.
// ABOUTME: Decomposes "┌─ path:line:column" lines into a Location value.
package diagnostics

import (
	"strconv"
	"strings"
)

// locationMarker is the box-drawing prefix the Move compiler's diagnostic
// renderer puts in front of every source position line.
const locationMarker = "┌─"

// Location is a source position reported by the compiler.
type Location struct {
	File   string `json:"file"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// ParseLocation reports whether line is a location marker line and, if so,
// returns the decoded Location. Marker lines that are truncated or carry
// unparseable line/column numbers are treated as non-matches rather than
// errors, so a wrapped or shortened marker never aborts a parse.
func ParseLocation(line string) (Location, bool) {
	if !strings.HasPrefix(strings.TrimSpace(line), locationMarker) {
		return Location{}, false
	}

	parts := strings.Split(line, ":")
	if len(parts) < 3 {
		return Location{}, false
	}

	file := strings.TrimSpace(strings.ReplaceAll(parts[0], locationMarker, ""))

	lineNum, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return Location{}, false
	}
	colNum, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Location{}, false
	}

	return Location{File: file, Line: uint32(lineNum), Column: uint32(colNum)}, true
}
