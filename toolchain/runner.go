// ABOUTME: Context-aware subprocess execution with captured output.
// ABOUTME: Uses process groups so cancellation kills the whole child tree.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
)

// ExecResult holds the captured output of a finished subprocess. A non-zero
// exit code is not an error at this layer: the Move toolchain reports
// diagnostics through its streams and exit status.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// LaunchError reports that the OS could not start an executable (not found,
// permission denied). It is fatal for the invocation and never retried.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Run executes name with args in dir and blocks until it exits, capturing
// stdout and stderr. The child runs in its own process group; if ctx is
// cancelled the whole group is killed so no grandchildren are orphaned.
func Run(ctx context.Context, dir, name string, args ...string) (*ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	// Own process group so the group can be signalled as a unit.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Name: name, Err: err}
	}

	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		// CommandContext killed the direct child; sweep the rest of the group.
		if cmd.Process != nil {
			if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
				_ = syscall.Kill(-pgid, syscall.SIGKILL)
			}
		}
		return nil, ctx.Err()
	}

	exitCode := 0
	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("wait for %s: %w", name, waitErr)
		}
		exitCode = exitErr.ExitCode()
	}

	return &ExecResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
	}, nil
}
