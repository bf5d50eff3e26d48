// ABOUTME: Tests for the identity-keyed diagnostic set.
// ABOUTME: Covers partitioning, dedup with last-write-wins, merge, ordering.
package diagnostics

import "testing"

func rec(file string, line, col uint32, code, body string, sev Severity) Record {
	return Record{
		Location: Location{File: file, Line: line, Column: col},
		Code:     code,
		Severity: sev,
		Body:     body,
	}
}

func TestSetPartitionsBySeverity(t *testing.T) {
	s := NewSet()
	s.Add(rec("a.move", 1, 1, "W1", "w", SeverityWarning))
	s.Add(rec("a.move", 2, 1, "E1", "e", SeverityError))

	if len(s.Warnings()) != 1 || len(s.Errors()) != 1 {
		t.Errorf("partitions = %d warnings / %d errors, want 1 / 1",
			len(s.Warnings()), len(s.Errors()))
	}
	if !s.HasErrors() {
		t.Error("HasErrors should be true")
	}
}

func TestSetLastWriteWinsForBody(t *testing.T) {
	s := NewSet()
	s.Add(rec("a.move", 1, 1, "W1", "first", SeverityWarning))
	s.Add(rec("a.move", 1, 1, "W1", "second", SeverityWarning))

	warnings := s.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Body != "second" {
		t.Errorf("Body = %q, want the later write", warnings[0].Body)
	}
}

func TestSetMergeOverwrites(t *testing.T) {
	base := NewSet()
	base.Add(rec("a.move", 1, 1, "W1", "base", SeverityWarning))
	base.Add(rec("b.move", 2, 2, "W2", "only-base", SeverityWarning))

	other := NewSet()
	other.Add(rec("a.move", 1, 1, "W1", "other", SeverityWarning))
	other.Add(rec("c.move", 3, 3, "E1", "err", SeverityError))

	base.Merge(other)

	warnings := base.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(warnings))
	}
	if warnings[0].Body != "other" {
		t.Errorf("merged body = %q, want records from the merged set to win", warnings[0].Body)
	}
	if len(base.Errors()) != 1 {
		t.Errorf("got %d errors, want 1", len(base.Errors()))
	}
}

func TestSetMergeNil(t *testing.T) {
	s := NewSet()
	s.Merge(nil) // must not panic
	if s.HasErrors() {
		t.Error("empty set should have no errors")
	}
}

func TestSetDeterministicOrdering(t *testing.T) {
	s := NewSet()
	s.Add(rec("b.move", 5, 1, "W3", "", SeverityWarning))
	s.Add(rec("a.move", 9, 1, "W2", "", SeverityWarning))
	s.Add(rec("a.move", 2, 4, "W1", "", SeverityWarning))
	s.Add(rec("a.move", 2, 1, "W4", "", SeverityWarning))

	got := s.Warnings()
	wantOrder := []string{"W4", "W1", "W2", "W3"}
	for i, w := range got {
		if w.Code != wantOrder[i] {
			t.Errorf("position %d: code = %q, want %q", i, w.Code, wantOrder[i])
		}
	}
}
