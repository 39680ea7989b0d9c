package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/expense-tracker/internal/transport/mcpserver"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/spf13/cobra"
)

var proxyRemoteURL string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Serve a remote expense tracker over stdio",
	Long:  `Connect to a remote instance over streamable HTTP, mirror its tools and resources, and serve them locally over stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := initLogger(cfg)

		remoteURL := cfg.Proxy.RemoteURL
		if proxyRemoteURL != "" {
			remoteURL = proxyRemoteURL
		}

		opts := mcpserver.ProxyOptions{
			Name:    cfg.App.Name,
			Version: cfg.App.Version,
			Logger:  log,
		}

		remote, err := mcpserver.ConnectRemote(ctx, remoteURL, opts, transport.WithHTTPTimeout(cfg.Proxy.Timeout))
		if err != nil {
			return err
		}
		defer remote.Close()

		proxy, err := mcpserver.NewProxyServer(ctx, remote, opts)
		if err != nil {
			return err
		}

		log.Info("proxying MCP over stdio", "remote", remoteURL)
		return mcpserver.ServeStdio(ctx, proxy, log, os.Stdin, os.Stdout)
	},
}

func init() {
	proxyCmd.Flags().StringVar(&proxyRemoteURL, "remote-url", "", "remote MCP endpoint, overrides proxy.remote_url")
}
