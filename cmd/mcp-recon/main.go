// Command mcp-recon runs the MCP tool server for reconciliation runs.
// Uses stdio transport for integration with AI assistants.
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finops-claw-gang/recon-go/internal/config"
	"github.com/finops-claw-gang/recon-go/internal/connectors"
	"github.com/finops-claw-gang/recon-go/internal/events"
	"github.com/finops-claw-gang/recon-go/internal/mcpserver"
	"github.com/finops-claw-gang/recon-go/internal/observability"
	"github.com/finops-claw-gang/recon-go/internal/runner"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := observability.InitLogger(cfg.LogLevel, os.Stderr)

	m, err := config.LoadManifest(cfg.ManifestPath)
	if err != nil {
		log.Fatalf("manifest: %v", err)
	}

	factory, err := connectors.NewFactory(context.Background(), cfg, m)
	if err != nil {
		log.Fatalf("connectors: %v", err)
	}

	r := &runner.Runner{
		Sources:     factory,
		Logger:      logger,
		Events:      events.LogEmitter{Logger: logger},
		Concurrency: cfg.Concurrency,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "recon-go",
		Version: "v1.0.0",
	}, nil)
	mcpserver.NewTools(m, r).RegisterTools(server)

	logger.Info("mcp server starting", "manifest", cfg.ManifestPath, "pairs", len(m.Pairs))
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
