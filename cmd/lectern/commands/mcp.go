// ABOUTME: CLI command serving the MCP surface over stdio
// ABOUTME: Exposes search_corpus and ask tools to MCP clients
package commands

import (
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"lectern/internal/assemble"
	"lectern/internal/mcp"
	"lectern/internal/retrieval"
)

// NewMCPCmd creates the mcp command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve corpus tools over the Model Context Protocol (stdio)",
		Long: `Run an MCP server on stdio exposing two tools: search_corpus for raw
similarity search and ask for retrieval-augmented answers.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("lectern", versionInfo.Version)
	mcp.RegisterTools(server,
		retrieval.New(client, store, cfg.DefaultTopK),
		assemble.New(cfg.MaxContextChars),
		client,
		cfg.Persona,
	)

	return mcpserver.ServeStdio(server)
}
