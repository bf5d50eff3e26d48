// ABOUTME: Help display for the sui-dev-mcp CLI with flags, examples, and
// ABOUTME: environment status for the required configuration variables.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w, including usage patterns,
// flags, examples, and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "sui-dev-mcp %s — MCP server for Sui Move projects\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sui-dev-mcp                     Serve MCP over HTTP (SSE at /sse, streamable at /mcp)")
	fmt.Fprintln(w, "  sui-dev-mcp -stdio              Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  sui-dev-mcp -check [dir]        Validate a project once and print diagnostics")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <file>        Optional YAML config file (env vars take precedence)")
	fmt.Fprintln(w, "  -stdio                Serve over stdin/stdout instead of HTTP")
	fmt.Fprintln(w, "  -check                Run the validate flow once and exit")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  PORT=8085 PROJECT_FOLDER=~/myproject MOVEFMT_CMD=movefmt sui-dev-mcp")
	fmt.Fprintln(w, "  sui-dev-mcp -stdio")
	fmt.Fprintln(w, "  sui-dev-mcp -check ~/myproject")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  PROJECT_FOLDER        %s\n", envStatus("PROJECT_FOLDER"))
	fmt.Fprintf(w, "  MOVEFMT_CMD           %s\n", envStatus("MOVEFMT_CMD"))
	fmt.Fprintf(w, "  PORT                  %s\n", envStatus("PORT"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PROJECT_FOLDER and MOVEFMT_CMD are required for server modes.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
