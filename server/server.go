// ABOUTME: MCP server exposing the format and validate tools over SSE,
// ABOUTME: streamable HTTP, and stdio transports behind a chi router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ronanyeah/sui-dev-mcp/toolchain"
)

const serverName = "sui-dev-mcp"

const instructions = "This server provides tools to help manage a Sui Move project."

// Server wires the MCP tool surface to a Move project. It holds no mutable
// state: concurrent tool invocations share only the immutable project and
// the logger.
type Server struct {
	cfg       *Config
	logger    *zap.Logger
	project   *toolchain.Project
	mcpServer *mcp.Server
	version   string
}

// New creates a Server for the given project and registers its tools.
func New(cfg *Config, logger *zap.Logger, project *toolchain.Project, version string) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		project: project,
		version: version,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	s.registerTools()

	return s
}

// Handler returns the HTTP handler hosting the MCP endpoints. The SSE
// transport lives at /sse (message POSTs go to the session endpoint it
// advertises there); the streamable HTTP transport lives at /mcp.
func (s *Server) Handler() http.Handler {
	getServer := func(*http.Request) *mcp.Server { return s.mcpServer }
	sse := mcp.NewSSEHandler(getServer, nil)
	streamable := mcp.NewStreamableHTTPHandler(getServer, nil)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	// The SSE handler advertises its own session endpoint under /sse and
	// receives the message POSTs there; no separate message route is needed.
	r.Handle("/sse", sse)
	r.Handle("/mcp", streamable)

	return r
}

// RunStdio serves MCP over stdin/stdout until ctx is cancelled or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","server":"` + serverName + `"}`))
}

// requestLogger logs each HTTP request with latency and status.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// NewLogger builds a zap logger from the config's level and format. Level
// parse failures fall back to debug rather than refusing to start.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.DebugLevel
	}

	var zcfg zap.Config
	if cfg.LogFormat == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
