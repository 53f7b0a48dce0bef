// ABOUTME: MCP tool handler implementations for corpus search and answering
// ABOUTME: Tool failures come back as tool results, not protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"lectern/internal/assemble"
	"lectern/internal/retrieval"
)

// Completer produces a non-streamed completion; MCP tool calls return one
// payload, so incremental fragments have no consumer here.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	retriever *retrieval.Retriever
	assembler *assemble.Assembler
	completer Completer
	persona   string
}

type passageResult struct {
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
}

// SearchCorpus handles the search_corpus tool
func (h *Handlers) SearchCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	results, err := h.retriever.Retrieve(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	passages := make([]passageResult, 0, len(results))
	for _, res := range results {
		passages = append(passages, passageResult{
			Rank:   res.Rank,
			Score:  res.Score,
			Source: res.Chunk.Source,
			Text:   res.Chunk.Text,
		})
	}

	responseJSON, err := json.MarshalIndent(map[string]interface{}{
		"query":    query,
		"passages": passages,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	results, err := h.retriever.Retrieve(ctx, question, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	prompt := h.assembler.Assemble(results, h.persona)
	answer, err := h.completer.Complete(ctx, prompt, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}

	responseJSON, err := json.MarshalIndent(map[string]interface{}{
		"question":      question,
		"answer":        answer,
		"passages_used": len(results),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
