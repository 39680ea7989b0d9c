package mcpserver_test

import (
	"context"
	"errors"
	"os"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/transport/mcpserver"
)

type unreachableRemote struct {
	mcpserver.Remote
}

func (unreachableRemote) ListTools(context.Context, mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	return nil, errors.New("connection refused")
}

var _ = Describe("Proxy", func() {
	var (
		ctx    context.Context
		be     *backend
		remote *client.Client
		local  *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		be = newBackend(ctx)

		upstream := mcpserver.NewServer(be.service, be.categories, mcpserver.Options{
			Name:    "expense_tracker",
			Version: "remote",
			Logger:  quietLogger(),
		})
		remote = connect(ctx, upstream)

		proxy, err := mcpserver.NewProxyServer(ctx, remote, mcpserver.ProxyOptions{
			Name:    "expense_tracker_proxy",
			Version: "test",
			Logger:  quietLogger(),
		})
		Expect(err).NotTo(HaveOccurred())
		local = connect(ctx, proxy)
	})

	It("should mirror the remote tool list", func() {
		upstream, err := remote.ListTools(ctx, mcp.ListToolsRequest{})
		Expect(err).NotTo(HaveOccurred())
		mirrored, err := local.ListTools(ctx, mcp.ListToolsRequest{})
		Expect(err).NotTo(HaveOccurred())

		names := func(tools []mcp.Tool) []string {
			out := make([]string, len(tools))
			for i, t := range tools {
				out[i] = t.Name
			}
			return out
		}
		Expect(names(mirrored.Tools)).To(ConsistOf(names(upstream.Tools)))
	})

	It("should forward tool calls and return the remote answer", func() {
		result := callTool(ctx, local, mcpserver.ToolAddExpense, map[string]any{
			"date":     "2024-06-01",
			"amount":   8,
			"category": "books",
		})
		Expect(result.IsError).To(BeFalse())
		Expect(resultText(result)).To(ContainSubstring(`"status":"ok"`))

		summary := callTool(ctx, local, mcpserver.ToolSummarize, map[string]any{
			"start_date": "2024-06-01",
			"end_date":   "2024-06-30",
		})
		Expect(resultText(summary)).To(MatchJSON(`{"total_expense":8}`))

		direct, err := be.service.ListExpenses(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(direct).To(HaveLen(1))
	})

	It("should pass remote tool errors through unchanged", func() {
		result := callTool(ctx, local, mcpserver.ToolAddExpense, map[string]any{"date": "2024-06-01"})
		Expect(result.IsError).To(BeTrue())
	})

	It("should forward resource reads", func() {
		Expect(os.WriteFile(be.categoriesPath, []byte(`{"proxied":true}`), 0o644)).To(Succeed())

		result, err := readResource(ctx, local, category.ResourceURI)
		Expect(err).NotTo(HaveOccurred())
		Expect(resourceText(result.Contents[0])).To(Equal(`{"proxied":true}`))
	})

	It("should fail to start when the remote cannot be listed", func() {
		_, err := mcpserver.NewProxyServer(ctx, unreachableRemote{}, mcpserver.ProxyOptions{Name: "p", Version: "t"})
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})
})
