package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"memomcp/internal/logging"
	"memomcp/internal/mcp"
)

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve every tool over MCP on stdin/stdout",
		Long: `Starts a Model Context Protocol server that reads newline-delimited
JSON-RPC messages from stdin and writes responses to stdout. Logs go to
stderr. The server exits when stdin closes or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: c.runServe,
	}
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	reg, err := c.newRegistry(c.cfg)
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(reg, mcp.Options{
		Name:    c.cfg.Server.Name,
		Version: c.cfg.Server.Version,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.cfg.Memo.Dir == "" {
		logging.BootWarn("MD_MEMO_DIR is not set; memo tools will fail until it is")
	}

	err = srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		logging.Server("shutdown signal received")
		return nil
	}
	return err
}
