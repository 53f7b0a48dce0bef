// ABOUTME: MCP tool definitions and registration for the lectern server
// ABOUTME: Exposes corpus search and question answering as MCP tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"lectern/internal/assemble"
	"lectern/internal/retrieval"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, retriever *retrieval.Retriever,
	assembler *assemble.Assembler, completer Completer, persona string) *Handlers {
	handlers := &Handlers{
		retriever: retriever,
		assembler: assembler,
		completer: completer,
		persona:   persona,
	}

	// 1. search_corpus - top-k similarity search over the ingested transcripts
	server.AddTool(mcp.Tool{
		Name:        "search_corpus",
		Description: "Search the ingested lecture transcripts for passages semantically similar to a query. Returns ranked passages with similarity scores and source names.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of passages to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchCorpus)

	// 2. ask - retrieval-augmented answer to a question
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the lecture corpus: retrieves the most relevant passages and conditions the model on them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "How many passages to retrieve for context (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)

	return handlers
}
