// ABOUTME: Classifies Move test-runner stdout into a pass/fail/unknown verdict.
// ABOUTME: Pure substring inspection; failure detail is the stdout tail.
package diagnostics

import "strings"

// Verdict is the three-way classification of a test run's outcome.
type Verdict int

const (
	// VerdictUnknown means no terminal marker was found in the output.
	VerdictUnknown Verdict = iota
	VerdictPassed
	VerdictFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictPassed:
		return "passed"
	case VerdictFailed:
		return "failed"
	}
	return "unknown"
}

const (
	failureMarker = "Test failures"
	successMarker = "Test result: OK"
)

// Classify inspects the test runner's full stdout for terminal markers.
// A failure marker wins over a success marker; the returned detail is the
// trimmed stdout suffix starting at the first failure marker, and is empty
// for any other verdict.
func Classify(stdout string) (Verdict, string) {
	if idx := strings.Index(stdout, failureMarker); idx >= 0 {
		return VerdictFailed, strings.TrimSpace(stdout[idx:])
	}
	if strings.Contains(stdout, successMarker) {
		return VerdictPassed, ""
	}
	return VerdictUnknown, ""
}
