package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "diagrammer/internal/adapters/mcp"
	"diagrammer/internal/application"
	"diagrammer/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/diagrammer/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("diagrammer-mcp: %v", err)
	}

	// stdout carries the protocol
	logger := cfg.NewLogger(os.Stderr)

	snapshots, err := cfg.OpenSnapshotStore()
	if err != nil {
		log.Fatalf("diagrammer-mcp: %v", err)
	}
	defer snapshots.Close()

	session := application.OpenSession(snapshots,
		application.WithIDGenerator(application.NewULIDGenerator()),
		application.WithLogger(logger),
	)

	mcpServer := server.NewMCPServer(
		"diagrammer-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, session)
	mcpadapter.RegisterWriteTools(mcpServer, session)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
