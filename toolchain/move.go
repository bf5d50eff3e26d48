// ABOUTME: Build, test, and format flows for a Sui Move project directory.
// ABOUTME: Orchestrates subprocesses and the diagnostic parser into results.
package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ronanyeah/sui-dev-mcp/diagnostics"
)

// defaultSuiBin is the toolchain executable resolved from PATH.
const defaultSuiBin = "sui"

// Project is a Sui Move project that can be formatted and validated. Values
// are immutable after construction; methods are safe for concurrent use.
type Project struct {
	root         string
	formatterCmd string
	suiBin       string
}

// ProjectOption configures a Project.
type ProjectOption func(*Project)

// WithSuiBin overrides the toolchain executable (tests use this to point at
// a stub binary).
func WithSuiBin(bin string) ProjectOption {
	return func(p *Project) {
		p.suiBin = bin
	}
}

// NewProject creates a Project rooted at root. formatterCmd is the movefmt
// invocation: the first whitespace-delimited token is the executable, any
// remaining tokens are fixed leading arguments.
func NewProject(root, formatterCmd string, opts ...ProjectOption) *Project {
	p := &Project{
		root:         root,
		formatterCmd: formatterCmd,
		suiBin:       defaultSuiBin,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the project directory.
func (p *Project) Root() string { return p.root }

// FormatError reports that a formatter pass failed to launch. Phase names
// the subdirectory whose pass failed.
type FormatError struct {
	Phase string // "sources" or "tests"
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("failed to run formatter on `%s`: %v", e.Phase, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Format runs the configured formatter over the project's sources/ and
// tests/ subdirectories, one independent invocation each. Formatters report
// through exit status, not diagnostics, so only launch failures are errors.
func (p *Project) Format(ctx context.Context) error {
	for _, phase := range []string{"sources", "tests"} {
		if err := p.runFormatter(ctx, phase); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) runFormatter(ctx context.Context, phase string) error {
	name, args := splitCommand(p.formatterCmd)
	if name == "" {
		return &FormatError{Phase: phase, Err: fmt.Errorf("formatter command is empty")}
	}
	args = append(args, filepath.Join(p.root, phase))

	if _, err := Run(ctx, p.root, name, args...); err != nil {
		return &FormatError{Phase: phase, Err: err}
	}
	return nil
}

// ValidationResult is the outcome of one validate invocation. It is built
// once, never mutated, and holds no state beyond the call.
type ValidationResult struct {
	Warnings    []diagnostics.Record
	BuildErrors []diagnostics.Record

	// Verdict is VerdictUnknown when the test phase was skipped (build
	// errors) or produced no recognizable terminal marker.
	Verdict       diagnostics.Verdict
	FailureDetail string
}

// Validate builds the project and, if the build produced no errors, runs its
// tests. Build errors short-circuit: a project that fails to build is never
// tested and the verdict stays unknown.
func (p *Project) Validate(ctx context.Context) (*ValidationResult, error) {
	build, err := Run(ctx, p.root, p.suiBin, "move", "build", "--force")
	if err != nil {
		return nil, fmt.Errorf("build project: %w", err)
	}

	buildSet, err := diagnostics.Scan(diagnostics.Sanitize(build.Stderr))
	if err != nil {
		return nil, fmt.Errorf("parse build output: %w", err)
	}

	if buildSet.HasErrors() {
		return &ValidationResult{
			Warnings:    buildSet.Warnings(),
			BuildErrors: buildSet.Errors(),
			Verdict:     diagnostics.VerdictUnknown,
		}, nil
	}

	// The plain-text renderer is parsed instead of --json-errors: the JSON
	// mode elides the body text the caller needs.
	test, err := Run(ctx, p.root, p.suiBin, "move", "test")
	if err != nil {
		return nil, fmt.Errorf("run tests: %w", err)
	}

	testSet, err := diagnostics.Scan(diagnostics.Sanitize(test.Stderr))
	if err != nil {
		return nil, fmt.Errorf("parse test output: %w", err)
	}
	testSet.Merge(buildSet)

	verdict, detail := diagnostics.Classify(diagnostics.Sanitize(test.Stdout))

	return &ValidationResult{
		Warnings:      testSet.Warnings(),
		BuildErrors:   testSet.Errors(),
		Verdict:       verdict,
		FailureDetail: detail,
	}, nil
}

// splitCommand splits a command string into an executable name and its fixed
// leading arguments. Empty tokens from repeated whitespace are dropped.
func splitCommand(cmd string) (string, []string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
