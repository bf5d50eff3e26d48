// ABOUTME: Tests for the format and validate flows against stub toolchains.
// ABOUTME: Covers short-circuiting, warning merge, verdicts, launch failures.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ronanyeah/sui-dev-mcp/diagnostics"
)

const stubWarning = `warning[W1001]: unused variable
  ┌─ sources/a.move:10:5
   │
10 │     let x = 1;
  =
`

const stubTestWarning = `warning[W2002]: unused constant
  ┌─ tests/t.move:4:1
   │
 4 │     const C: u64 = 9;
  =
`

const stubError = `error[E02]: type mismatch
  ┌─ sources/b.move:3:9
   │
 3 │     let y: u64 = false;

`

// writeSuiStub writes a stub sui binary that emits canned build/test output.
// markerPath is touched when the test subcommand runs, so callers can assert
// whether the test phase happened at all.
func writeSuiStub(t *testing.T, buildStderr, testStderr, testStdout, markerPath string) string {
	t.Helper()
	dir := t.TempDir()
	canned := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	body := fmt.Sprintf(`case "$2" in
build)
  cat %q >&2
  ;;
test)
  touch %q
  cat %q >&2
  cat %q
  ;;
esac
`, canned("build.stderr", buildStderr), markerPath,
		canned("test.stderr", testStderr), canned("test.stdout", testStdout))
	return writeScript(t, "sui", body)
}

func TestValidatePassedRun(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, "test-ran")
	sui := writeSuiStub(t, stubWarning, stubTestWarning,
		"Test result: OK. Total tests: 3; passed: 3\n", marker)

	p := NewProject(root, "movefmt", WithSuiBin(sui))
	res, err := p.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if len(res.Warnings) != 2 {
		t.Errorf("got %d warnings, want build + test warnings merged", len(res.Warnings))
	}
	if len(res.BuildErrors) != 0 {
		t.Errorf("got %d errors, want 0", len(res.BuildErrors))
	}
	if res.Verdict != diagnostics.VerdictPassed {
		t.Errorf("Verdict = %v, want passed", res.Verdict)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Error("test phase should have run")
	}
}

func TestValidateBuildErrorShortCircuits(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, "test-ran")
	sui := writeSuiStub(t, stubWarning+stubError, "", "Test result: OK\n", marker)

	p := NewProject(root, "movefmt", WithSuiBin(sui))
	res, err := p.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if len(res.BuildErrors) != 1 {
		t.Fatalf("got %d build errors, want 1", len(res.BuildErrors))
	}
	if res.BuildErrors[0].Code != "E02" {
		t.Errorf("error code = %q, want E02", res.BuildErrors[0].Code)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(res.Warnings))
	}
	if res.Verdict != diagnostics.VerdictUnknown {
		t.Errorf("Verdict = %v, want unknown when the build fails", res.Verdict)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("test phase must not run after a failed build")
	}
}

func TestValidateFailedTests(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, "test-ran")
	sui := writeSuiStub(t, "", "", "Running tests\nTest failures: 1\n\ntest_foo failed\n", marker)

	p := NewProject(root, "movefmt", WithSuiBin(sui))
	res, err := p.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if res.Verdict != diagnostics.VerdictFailed {
		t.Errorf("Verdict = %v, want failed", res.Verdict)
	}
	if !strings.HasPrefix(res.FailureDetail, "Test failures: 1") {
		t.Errorf("FailureDetail = %q", res.FailureDetail)
	}
}

func TestValidateStripsAnsiFromToolOutput(t *testing.T) {
	root := t.TempDir()
	colored := "\x1b[1;33m" + stubWarning + "\x1b[0m"
	sui := writeSuiStub(t, colored, "", "Test result: OK\n",
		filepath.Join(root, "test-ran"))

	p := NewProject(root, "movefmt", WithSuiBin(sui))
	res, err := p.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(res.Warnings))
	}
	if strings.Contains(res.Warnings[0].Body, "\x1b") {
		t.Error("warning body should not contain escape sequences")
	}
}

func TestValidateBuildLaunchFailure(t *testing.T) {
	p := NewProject(t.TempDir(), "movefmt", WithSuiBin("/nonexistent/sui"))
	_, err := p.Validate(context.Background())
	var launch *LaunchError
	if !errors.As(err, &launch) {
		t.Fatalf("err = %v, want a wrapped *LaunchError", err)
	}
}

func TestValidateMalformedBlockSurfaces(t *testing.T) {
	root := t.TempDir()
	sui := writeSuiStub(t, "error[E09]: broken\n  no location here\n\n", "", "",
		filepath.Join(root, "test-ran"))

	p := NewProject(root, "movefmt", WithSuiBin(sui))
	_, err := p.Validate(context.Background())
	var malformed *diagnostics.MalformedBlockError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want a wrapped *MalformedBlockError", err)
	}
}

func TestFormatRunsBothPhases(t *testing.T) {
	root := t.TempDir()
	logPath := filepath.Join(root, "fmt.log")
	fmtBin := writeScript(t, "movefmt", fmt.Sprintf("echo \"$@\" >> %q\n", logPath))

	p := NewProject(root, fmtBin+" --quiet")
	if err := p.Format(context.Background()); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	log := string(data)
	if !strings.Contains(log, "--quiet "+filepath.Join(root, "sources")) {
		t.Errorf("formatter log missing sources pass: %q", log)
	}
	if !strings.Contains(log, "--quiet "+filepath.Join(root, "tests")) {
		t.Errorf("formatter log missing tests pass: %q", log)
	}
}

func TestFormatLaunchFailureNamesPhase(t *testing.T) {
	p := NewProject(t.TempDir(), "/nonexistent/movefmt")
	err := p.Format(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *FormatError", err)
	}
	if fe.Phase != "sources" {
		t.Errorf("Phase = %q, want sources", fe.Phase)
	}
	var launch *LaunchError
	if !errors.As(err, &launch) {
		t.Error("FormatError should wrap the underlying LaunchError")
	}
}

func TestFormatEmptyCommand(t *testing.T) {
	p := NewProject(t.TempDir(), "   ")
	err := p.Format(context.Background())
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FormatError", err)
	}
}

func TestSplitCommand(t *testing.T) {
	name, args := splitCommand("movefmt --emit-mode overwrite")
	if name != "movefmt" {
		t.Errorf("name = %q", name)
	}
	if len(args) != 2 || args[0] != "--emit-mode" || args[1] != "overwrite" {
		t.Errorf("args = %v", args)
	}

	name, args = splitCommand("movefmt")
	if name != "movefmt" || len(args) != 0 {
		t.Errorf("single token: name = %q, args = %v", name, args)
	}

	if name, _ := splitCommand(""); name != "" {
		t.Errorf("empty command: name = %q", name)
	}
}
