// ABOUTME: Identity-keyed diagnostic set partitioned into warnings and errors.
// ABOUTME: Deduplicates by (file, line, column, code); later insert wins.
package diagnostics

import "sort"

// Severity classifies a diagnostic block.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Identity is the value key under which diagnostics deduplicate. Two records
// with equal identity are the same diagnostic regardless of body text.
type Identity struct {
	File   string
	Line   uint32
	Column uint32
	Code   string
}

// Record is one parsed warning or error block.
type Record struct {
	Location Location `json:"location"`
	Code     string   `json:"code"`
	Severity Severity `json:"-"`
	Body     string   `json:"body"`
}

// Identity returns the dedup key for the record.
func (r Record) Identity() Identity {
	return Identity{
		File:   r.Location.File,
		Line:   r.Location.Line,
		Column: r.Location.Column,
		Code:   r.Code,
	}
}

// Set holds parsed diagnostics keyed by identity, partitioned by severity.
type Set struct {
	warnings map[Identity]Record
	errors   map[Identity]Record
}

// NewSet returns an empty diagnostic set.
func NewSet() *Set {
	return &Set{
		warnings: make(map[Identity]Record),
		errors:   make(map[Identity]Record),
	}
}

// Add inserts a record, replacing any existing record with the same identity.
func (s *Set) Add(r Record) {
	if r.Severity == SeverityError {
		s.errors[r.Identity()] = r
		return
	}
	s.warnings[r.Identity()] = r
}

// Merge copies all records from other into s. Records in other win on
// identity collisions.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for k, r := range other.warnings {
		s.warnings[k] = r
	}
	for k, r := range other.errors {
		s.errors[k] = r
	}
}

// HasErrors reports whether the set contains any error-severity records.
func (s *Set) HasErrors() bool {
	return len(s.errors) > 0
}

// Warnings returns the warning records in deterministic order.
func (s *Set) Warnings() []Record {
	return sorted(s.warnings)
}

// Errors returns the error records in deterministic order.
func (s *Set) Errors() []Record {
	return sorted(s.errors)
}

// sorted flattens a partition ordered by file, line, column, then code, so
// output is stable regardless of insertion order.
func sorted(m map[Identity]Record) []Record {
	out := make([]Record, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		return a.Code < b.Code
	})
	return out
}
