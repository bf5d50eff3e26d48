// ABOUTME: Local check mode: run the validate flow once and print colored
// ABOUTME: diagnostics to the terminal without starting any transport.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/ronanyeah/sui-dev-mcp/diagnostics"
	"github.com/ronanyeah/sui-dev-mcp/toolchain"
)

// runCheck validates a project once and prints the results. The project
// root comes from the positional argument, falling back to PROJECT_FOLDER.
// Exit code 0 means a clean build with no failed tests.
func runCheck(cli cliConfig) int {
	root := cli.projectDir
	if root == "" {
		root = os.Getenv("PROJECT_FOLDER")
	}
	if root == "" {
		fmt.Fprintln(os.Stderr, "error: no project directory; pass one or set PROJECT_FOLDER")
		return 1
	}

	project := toolchain.NewProject(root, os.Getenv("MOVEFMT_CMD"))

	res, err := project.Validate(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	printValidation(os.Stdout, res)

	if len(res.BuildErrors) > 0 || res.Verdict == diagnostics.VerdictFailed {
		return 1
	}
	return 0
}

var (
	warningLabel = color.New(color.FgYellow, color.Bold)
	errorLabel   = color.New(color.FgRed, color.Bold)
	passedLabel  = color.New(color.FgGreen, color.Bold)
)

// printValidation renders a validation result for a human terminal.
func printValidation(w io.Writer, res *toolchain.ValidationResult) {
	for _, rec := range res.Warnings {
		printRecord(w, warningLabel, rec)
	}
	for _, rec := range res.BuildErrors {
		printRecord(w, errorLabel, rec)
	}

	switch res.Verdict {
	case diagnostics.VerdictPassed:
		passedLabel.Fprintln(w, "tests passed")
	case diagnostics.VerdictFailed:
		errorLabel.Fprintln(w, "tests failed")
		fmt.Fprintln(w, res.FailureDetail)
	default:
		if len(res.BuildErrors) > 0 {
			errorLabel.Fprintln(w, "build failed, tests skipped")
		} else {
			fmt.Fprintln(w, "no test verdict")
		}
	}
}

func printRecord(w io.Writer, label *color.Color, rec diagnostics.Record) {
	label.Fprintf(w, "%s[%s]", rec.Severity, rec.Code)
	fmt.Fprintf(w, " %s:%d:%d\n", rec.Location.File, rec.Location.Line, rec.Location.Column)
	fmt.Fprintln(w, rec.Body)
	fmt.Fprintln(w)
}
