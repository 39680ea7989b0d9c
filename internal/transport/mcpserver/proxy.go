package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Remote is the subset of an MCP client the proxy forwards to.
type Remote interface {
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	ListResources(ctx context.Context, req mcp.ListResourcesRequest) (*mcp.ListResourcesResult, error)
	ReadResource(ctx context.Context, req mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
}

type ProxyOptions struct {
	Name    string
	Version string
	Logger  *slog.Logger
}

// ConnectRemote opens a streamable-HTTP session to a remote instance and
// performs the initialize handshake.
func ConnectRemote(ctx context.Context, url string, opts ProxyOptions, httpOpts ...transport.StreamableHTTPCOption) (*client.Client, error) {
	c, err := client.NewStreamableHttpClient(url, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", url, err)
	}

	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to start client for %s: %w", url, err)
	}

	if err := Initialize(ctx, c, opts); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize session with %s: %w", url, err)
	}

	return c, nil
}

// Initialize performs the MCP handshake on a started client.
func Initialize(ctx context.Context, c *client.Client, opts ProxyOptions) error {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    opts.Name,
		Version: opts.Version,
	}
	_, err := c.Initialize(ctx, initReq)
	return err
}

// NewProxyServer mirrors the tools and resources of remote into a local
// server. Every call is forwarded unchanged and the remote's answer is
// returned as is.
func NewProxyServer(ctx context.Context, remote Remote, opts ProxyOptions) (*server.MCPServer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tools, err := remote.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list remote tools: %w", err)
	}

	resources, err := remote.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list remote resources: %w", err)
	}

	s := server.NewMCPServer(opts.Name, opts.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	for _, tool := range tools.Tools {
		s.AddTool(tool, forwardTool(remote))
	}
	for _, resource := range resources.Resources {
		s.AddResource(resource, forwardResource(remote))
	}

	logger.Info("proxy mirrored remote",
		"tools", len(tools.Tools),
		"resources", len(resources.Resources))

	return s, nil
}

func forwardTool(remote Remote) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		forward := mcp.CallToolRequest{}
		forward.Params.Name = req.Params.Name
		forward.Params.Arguments = req.Params.Arguments
		return remote.CallTool(ctx, forward)
	}
}

func forwardResource(remote Remote) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		forward := mcp.ReadResourceRequest{}
		forward.Params.URI = req.Params.URI
		result, err := remote.ReadResource(ctx, forward)
		if err != nil {
			return nil, err
		}
		return result.Contents, nil
	}
}
