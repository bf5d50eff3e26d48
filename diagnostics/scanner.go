// ABOUTME: Line-oriented state machine that extracts warning/error blocks
// ABOUTME: from sanitized compiler output and yields structured records.
package diagnostics

import (
	"fmt"
	"strings"
)

const (
	warningPrefix = "warning["
	errorPrefix   = "error["
)

// MalformedBlockError reports a diagnostic block that reached its terminator
// without ever containing a location marker line. The renderer's output
// contract guarantees a location per block, so this aborts the parse rather
// than inventing a position or silently dropping the diagnostic.
type MalformedBlockError struct {
	Header string // the block's "warning[..]" / "error[..]" header line
	Body   string // the partial block body accumulated before termination
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("diagnostic block %q has no source location", e.Header)
}

type scanState int

const (
	stateScanning scanState = iota
	stateInWarningBlock
	stateInErrorBlock
)

// block accumulates one warning or error while the scanner is inside it.
type block struct {
	severity Severity
	header   string
	code     string
	body     strings.Builder
	loc      Location
	hasLoc   bool
}

func openBlock(header string, sev Severity, prefix string) *block {
	head, _, _ := strings.Cut(header, "]")
	b := &block{
		severity: sev,
		header:   header,
		code:     strings.TrimPrefix(head, prefix),
	}
	b.consume(header)
	return b
}

func (b *block) consume(line string) {
	if !b.hasLoc {
		if loc, ok := ParseLocation(line); ok {
			b.loc = loc
			b.hasLoc = true
		}
	}
	b.body.WriteString(line)
	b.body.WriteByte('\n')
}

// finish converts the accumulated block into a record. A block terminated
// without a location violates the renderer contract.
func (b *block) finish() (Record, error) {
	if !b.hasLoc {
		return Record{}, &MalformedBlockError{
			Header: b.header,
			Body:   strings.TrimSpace(b.body.String()),
		}
	}
	return Record{
		Location: b.loc,
		Code:     b.code,
		Severity: b.severity,
		Body:     strings.TrimSpace(b.body.String()),
	}, nil
}

// Scan walks sanitized compiler output line by line, groups contiguous lines
// into warning/error blocks, and collects them into a deduplicated Set.
//
// Warning blocks end at a line whose trimmed form starts with "=" (the
// renderer's trailing annotation separator); error blocks end at an empty
// line. A block still open at end of input is emitted only if a location was
// already found, otherwise it is discarded: truncated capture should not
// lose a locatable diagnostic, but an unlocatable tail is unusable.
func Scan(text string) (*Set, error) {
	set := NewSet()
	lines := splitLines(text)

	state := stateScanning
	var cur *block

	for _, line := range lines {
		switch state {
		case stateScanning:
			switch {
			case strings.HasPrefix(line, warningPrefix):
				cur = openBlock(line, SeverityWarning, warningPrefix)
				state = stateInWarningBlock
			case strings.HasPrefix(line, errorPrefix):
				cur = openBlock(line, SeverityError, errorPrefix)
				state = stateInErrorBlock
			}

		case stateInWarningBlock:
			if strings.HasPrefix(strings.TrimSpace(line), "=") {
				rec, err := cur.finish()
				if err != nil {
					return nil, err
				}
				set.Add(rec)
				cur = nil
				state = stateScanning
				continue
			}
			cur.consume(line)

		case stateInErrorBlock:
			if line == "" {
				rec, err := cur.finish()
				if err != nil {
					return nil, err
				}
				set.Add(rec)
				cur = nil
				state = stateScanning
				continue
			}
			cur.consume(line)
		}
	}

	// End of input inside a block: keep it only if a location was found.
	if cur != nil && cur.hasLoc {
		rec, err := cur.finish()
		if err != nil {
			return nil, err
		}
		set.Add(rec)
	}

	return set, nil
}

// splitLines splits on '\n' the way the scanner sees terminal output: a
// trailing newline does not produce a final empty line, and carriage
// returns are stripped.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
