// ABOUTME: MCP tool handlers bridging tool calls to the toolchain flows.
// ABOUTME: Shapes validate results into the warnings/buildErrors/testResults payload.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ronanyeah/sui-dev-mcp/diagnostics"
	"github.com/ronanyeah/sui-dev-mcp/toolchain"
)

// emptyArgs is the input schema for tools that take no arguments.
type emptyArgs struct{}

// validatePayload is the structured result of the validate_project tool.
// TestResults is null when the build failed or the test runner produced no
// recognizable terminal marker.
type validatePayload struct {
	Warnings    []string `json:"warnings"`
	BuildErrors []string `json:"buildErrors"`
	TestResults *string  `json:"testResults"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "format_project",
		Description: "Format project",
	}, s.handleFormatProject)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "validate_project",
		Description: "Builds the project and runs tests",
	}, s.handleValidateProject)
}

func (s *Server) handleFormatProject(ctx context.Context, _ *mcp.CallToolRequest, _ emptyArgs) (*mcp.CallToolResult, any, error) {
	logger := s.invocationLogger("format_project")
	logger.Debug("formatting project", zap.String("root", s.project.Root()))

	if err := s.project.Format(ctx); err != nil {
		logger.Error("format failed", zap.Error(err))
		return nil, nil, err
	}

	logger.Debug("format complete")
	return textResult("OK"), nil, nil
}

func (s *Server) handleValidateProject(ctx context.Context, _ *mcp.CallToolRequest, _ emptyArgs) (*mcp.CallToolResult, any, error) {
	logger := s.invocationLogger("validate_project")
	logger.Debug("validating project", zap.String("root", s.project.Root()))

	res, err := s.project.Validate(ctx)
	if err != nil {
		logger.Error("validate failed", zap.Error(err))
		return nil, nil, err
	}

	payload := buildValidatePayload(res)
	logger.Debug("validate complete",
		zap.Int("warnings", len(payload.Warnings)),
		zap.Int("build_errors", len(payload.BuildErrors)),
		zap.String("verdict", res.Verdict.String()),
	)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("encode validate result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

// buildValidatePayload flattens a validation result into the wire payload.
func buildValidatePayload(res *toolchain.ValidationResult) validatePayload {
	payload := validatePayload{
		Warnings:    bodies(res.Warnings),
		BuildErrors: bodies(res.BuildErrors),
	}

	switch res.Verdict {
	case diagnostics.VerdictPassed:
		v := "PASSED"
		payload.TestResults = &v
	case diagnostics.VerdictFailed:
		v := "FAILED:\n\n" + res.FailureDetail
		payload.TestResults = &v
	}

	return payload
}

// bodies extracts record bodies; each body carries the header line (with the
// diagnostic code) and the location marker line verbatim.
func bodies(records []diagnostics.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Body)
	}
	return out
}

func (s *Server) invocationLogger(tool string) *zap.Logger {
	return s.logger.With(
		zap.String("tool", tool),
		zap.String("invocation_id", uuid.NewString()),
	)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
