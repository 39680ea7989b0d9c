package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/expense-tracker/internal/transport/mcpserver"
	"github.com/spf13/cobra"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the MCP tools over stdin/stdout",
	Long:  `Serve the expense tools and the categories resource to a single client over stdin/stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		deps.Logger.Info("serving MCP over stdio")
		return mcpserver.ServeStdio(ctx, deps.NewMCPServer(), deps.Logger, os.Stdin, os.Stdout)
	},
}
