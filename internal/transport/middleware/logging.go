package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/go-chi/chi/middleware"
)

// MCPSessionHeader carries the streamable-HTTP session id.
const MCPSessionHeader = "Mcp-Session-Id"

// LoggingMiddleware logs one line per request. Bodies are not captured: MCP
// responses may be long-lived event streams, so the wrapped writer must keep
// flushing straight through.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= 400 && status < 500 {
				level = slog.LevelWarn
			} else if status >= 500 {
				level = slog.LevelError
			}

			logger.Log(r.Context(), level, "request",
				"request_id", internal.RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"mcp_session", r.Header.Get(MCPSessionHeader),
			)
		})
	}
}
