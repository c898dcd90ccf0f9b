package tools

import (
	"context"
	"time"

	"github.com/containerd/errdefs"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

// Stable machine-readable error code prefixes for tool error results.
// Clients can dispatch on the prefix before the first colon.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeUnauthenticated = "unauthenticated"
	CodeNotFound        = "not_found"
	CodeUnavailable     = "unavailable"
	CodeConfiguration   = "configuration"
	CodeInternal        = "internal"
)

// ErrorCode maps a classified error to its stable tool result code.
func ErrorCode(err error) string {
	switch {
	case errdefs.IsInvalidArgument(err):
		return CodeInvalidArgument
	case errdefs.IsUnauthorized(err):
		return CodeUnauthenticated
	case errdefs.IsNotFound(err):
		return CodeNotFound
	case errdefs.IsUnavailable(err):
		return CodeUnavailable
	case errdefs.IsFailedPrecondition(err):
		return CodeConfiguration
	default:
		return CodeInternal
	}
}

// ErrorResult converts a handler error into a coded MCP tool error result.
func ErrorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(ErrorCode(err) + ": " + err.Error())
}

// WrapWithLogging wraps a tool handler with structured logging, metrics
// recording, panic recovery, and error classification.
//
// The wrapper guarantees the invariant that a single tool invocation can
// never crash the server: handler panics are recovered and surfaced as
// internal error results, and handler errors become coded error results
// rather than protocol errors.
func WrapWithLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		logger := logging.WithTool(sc.Logger(), toolName)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("tool handler panicked",
					"panic", r,
					logging.Duration(time.Since(start)))
				sc.Metrics().RecordToolCall(ctx, toolName, logging.StatusError, time.Since(start))
				result = mcp.NewToolResultError(CodeInternal + ": unexpected error handling " + toolName)
				err = nil
			}
		}()

		logger.Debug("tool invocation started")

		result, handlerErr := handler(ctx, request, sc)
		duration := time.Since(start)

		status := logging.StatusSuccess
		if handlerErr != nil {
			status = logging.StatusError
			result = ErrorResult(handlerErr)
		} else if result != nil && result.IsError {
			status = logging.StatusError
		}

		sc.Metrics().RecordToolCall(ctx, toolName, status, duration)

		if handlerErr != nil {
			logger.Warn("tool invocation failed",
				logging.Status(status),
				logging.Err(handlerErr),
				logging.Duration(duration))
		} else {
			logger.Info("tool invocation completed",
				logging.Status(status),
				logging.Duration(duration))
		}

		return result, nil
	}
}
