package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/DocForm/internal/mcpTools"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// stdout carries the protocol
	logger_i.InitStderr()
	logger := logger_i.NewLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("DocForm MCP server starting on stdio")
	if err := mcpTools.NewServer().Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		slog.Error("MCP server stopped", "err", err)
		os.Exit(1)
	}
}
