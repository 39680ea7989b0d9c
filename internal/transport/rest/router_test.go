package rest_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	"github.com/mark3labs/mcp-go/server"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
)

var _ = Describe("RegisterAllRoutes", func() {
	var (
		router *chi.Mux
		logger *slog.Logger
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("should route the MCP endpoint for every method and tag requests", func() {
		var methods []string
		rest.RegisterAllRoutes(router, rest.Routes{
			MCPEndpoint: "/mcp",
			MCPHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				methods = append(methods, r.Method)
				w.WriteHeader(http.StatusAccepted)
			}),
		}, logger)

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/mcp", nil))
			Expect(rec.Code).To(Equal(http.StatusAccepted))
			Expect(rec.Header().Get(middleware.RequestIDHeader)).NotTo(BeEmpty())
		}
		Expect(methods).To(Equal([]string{"GET", "POST", "DELETE"}))
	})

	It("should keep a caller supplied request id", func() {
		rest.RegisterAllRoutes(router, rest.Routes{
			MCPEndpoint: "/mcp",
			MCPHandler:  http.NotFoundHandler(),
		}, logger)

		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Header().Get(middleware.RequestIDHeader)).To(Equal("abc-123"))
	})

	It("should expose metrics only when configured", func() {
		rest.RegisterAllRoutes(router, rest.Routes{
			MCPEndpoint: "/mcp",
			MCPHandler:  http.NotFoundHandler(),
			MetricsPath: "/metrics",
			MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("expense_tool_calls_total 0\n"))
			}),
		}, logger)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("expense_tool_calls_total"))

		other := chi.NewRouter()
		rest.RegisterAllRoutes(other, rest.Routes{MCPEndpoint: "/mcp", MCPHandler: http.NotFoundHandler()}, logger)
		rec = httptest.NewRecorder()
		other.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should recover from handler panics", func() {
		rest.RegisterAllRoutes(router, rest.Routes{
			MCPEndpoint: "/mcp",
			MCPHandler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic("boom")
			}),
		}, logger)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
	})

	It("should serve an MCP initialize over streamable HTTP", func() {
		mcpServer := server.NewMCPServer("expense_tracker", "test")
		rest.RegisterAllRoutes(router, rest.Routes{
			MCPEndpoint: "/mcp",
			MCPHandler:  server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath("/mcp")),
		}, logger)

		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get(middleware.MCPSessionHeader)).NotTo(BeEmpty())
		Expect(rec.Body.String()).To(ContainSubstring("expense_tracker"))
	})
})
