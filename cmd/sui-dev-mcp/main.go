// ABOUTME: CLI entrypoint for the Sui Move dev MCP server.
// ABOUTME: Wires config, logging, transports, signal handling, and check mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ronanyeah/sui-dev-mcp/server"
	"github.com/ronanyeah/sui-dev-mcp/toolchain"
)

var version = "dev"

// cliConfig holds CLI configuration parsed from flags and positional arguments.
type cliConfig struct {
	stdioMode   bool
	checkMode   bool
	configFile  string
	showVersion bool
	projectDir  string // optional positional override for check mode
}

func main() {
	loadDotEnv(".env")

	cli := parseFlags()

	if cli.showVersion {
		fmt.Printf("sui-dev-mcp %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cli))
}

// parseFlags parses command-line flags and returns a populated cliConfig.
func parseFlags() cliConfig {
	var cli cliConfig

	fs := flag.NewFlagSet("sui-dev-mcp", flag.ContinueOnError)
	fs.BoolVar(&cli.stdioMode, "stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
	fs.BoolVar(&cli.checkMode, "check", false, "Validate the project once and print diagnostics")
	fs.StringVar(&cli.configFile, "config", "", "Path to an optional YAML config file")
	fs.BoolVar(&cli.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cli.projectDir = fs.Arg(0)
	}

	return cli
}

// run dispatches to the appropriate mode. Returns an exit code.
func run(cli cliConfig) int {
	if cli.checkMode {
		return runCheck(cli)
	}
	return runServe(cli)
}

// runServe starts the MCP server on the configured transport and blocks
// until a shutdown signal arrives.
func runServe(cli cliConfig) int {
	cfg, err := server.LoadConfig(cli.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger, err := server.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	project := toolchain.NewProject(cfg.ProjectFolder, cfg.FormatterCmd)
	srv := server.New(cfg, logger, project, version)

	// Cancelled on SIGINT/SIGTERM so in-flight subprocesses are killed
	// rather than orphaned.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("interrupted, shutting down")
		cancel()
	}()

	if cli.stdioMode {
		if err := srv.RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("stdio server stopped", zap.Error(err))
			return 1
		}
		return 0
	}

	httpServer := &http.Server{
		Addr:    cfg.Bind,
		Handler: srv.Handler(),
	}

	go shutdownOnCancel(ctx, httpServer)

	logger.Info("listening",
		zap.String("addr", cfg.Bind),
		zap.String("project", cfg.ProjectFolder),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}

	return 0
}

// shutdownGrace is how long in-flight requests and SSE streams get to drain
// before the server is closed outright.
const shutdownGrace = 5 * time.Second

// shutdownOnCancel drains srv gracefully once ctx is cancelled, falling back
// to a hard close if connections outlive the grace period.
func shutdownOnCancel(ctx context.Context, srv *http.Server) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
	}
}
