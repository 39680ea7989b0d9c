package mcpserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Options struct {
	Name    string
	Version string
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewServer builds the MCP server exposing the expense tools and the category
// resource. The returned server can be served over any transport.
func NewServer(expenses ExpenseService, categories CategoryReader, opts Options) *server.MCPServer {
	base := transport.NewBaseHandler(opts.Logger)

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(loggingMiddleware(base.Logger)),
	}
	if opts.Metrics != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(opts.Metrics.Middleware()))
	}

	s := server.NewMCPServer(opts.Name, opts.Version, serverOpts...)

	h := NewToolHandler(expenses, base)
	s.AddTool(addExpenseTool(), h.AddExpense)
	s.AddTool(listExpensesTool(), h.ListExpenses)
	s.AddTool(listExpensesInRangeTool(), h.ListExpensesInRange)
	s.AddTool(getExpenseTool(), h.GetExpense)
	s.AddTool(deleteExpenseTool(), h.DeleteExpense)
	s.AddTool(updateExpenseTool(), h.UpdateExpense)
	s.AddTool(summarizeTool(), h.Summarize)

	s.AddResource(categoriesResource(), categoriesHandler(categories))

	return s
}

func loggingMiddleware(logger *slog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)
			logger.Debug("tool call",
				"tool", req.Params.Name,
				"is_error", result != nil && result.IsError,
				"duration_ms", time.Since(start).Milliseconds())
			return result, err
		}
	}
}
