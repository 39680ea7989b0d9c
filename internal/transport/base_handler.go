package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// BaseHandler provides common functionality for HTTP and MCP tool handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// JSONResult encodes data as the text content of a successful tool result.
func (h *BaseHandler) JSONResult(data interface{}) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.Logger.Error("failed to encode tool result", "error", err)
		return mcp.NewToolResultError("failed to encode result"), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// ToolError turns err into an error result scoped to the current call. The
// session stays open.
func (h *BaseHandler) ToolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	if appErr, ok := internal.IsAppError(err); ok {
		level := slog.LevelError
		if appErr.Type == internal.ErrorTypeValidation {
			level = slog.LevelWarn
		}
		h.Logger.Log(ctx, level, "tool call failed",
			"tool", tool,
			"type", appErr.Type,
			"code", appErr.Code,
			"error", err)
		return mcp.NewToolResultError(appErr.Error())
	}

	h.Logger.Error("tool call failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(err.Error())
}
