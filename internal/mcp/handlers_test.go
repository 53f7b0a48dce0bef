// ABOUTME: Tests for MCP tool handlers with stubbed retrieval collaborators
// ABOUTME: Argument validation and upstream failures surface as tool errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"lectern/internal/assemble"
	"lectern/internal/models"
	"lectern/internal/retrieval"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float64{1, 0, 0}, nil
}

type stubSearcher struct {
	results []models.RetrievedResult
	gotK    int
}

func (s *stubSearcher) Search(queryVector []float64, k int) ([]models.RetrievedResult, error) {
	s.gotK = k
	return s.results, nil
}

type stubCompleter struct {
	answer string
	err    error
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return s.answer, s.err
}

func newTestHandlers(embedder *stubEmbedder, searcher *stubSearcher, completer *stubCompleter) *Handlers {
	server := mcpserver.NewMCPServer("lectern-test", "0.0.0")
	retriever := retrieval.New(embedder, searcher, 10)
	assembler := assemble.New(6000)
	return RegisterTools(server, retriever, assembler, completer, "You are a test persona.")
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("tool result content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestSearchCorpus(t *testing.T) {
	searcher := &stubSearcher{results: []models.RetrievedResult{
		{Chunk: models.Chunk{Source: "talk-1", Text: "on breathing"}, Score: 0.91, Rank: 1},
		{Chunk: models.Chunk{Source: "talk-2", Text: "on posture"}, Score: 0.72, Rank: 2},
	}}
	h := newTestHandlers(&stubEmbedder{}, searcher, &stubCompleter{})

	result, err := h.SearchCorpus(context.Background(), toolRequest(map[string]interface{}{
		"query": "breathing",
	}))
	if err != nil {
		t.Fatalf("SearchCorpus() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("SearchCorpus() returned tool error: %s", resultText(t, result))
	}

	var payload struct {
		Query    string `json:"query"`
		Passages []struct {
			Rank   int     `json:"rank"`
			Score  float64 `json:"score"`
			Source string  `json:"source"`
		} `json:"passages"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("unmarshaling tool result: %v", err)
	}
	if payload.Query != "breathing" {
		t.Errorf("query = %q, want %q", payload.Query, "breathing")
	}
	if len(payload.Passages) != 2 {
		t.Fatalf("got %d passages, want 2", len(payload.Passages))
	}
	if payload.Passages[0].Source != "talk-1" || payload.Passages[0].Rank != 1 {
		t.Errorf("first passage = %+v, want talk-1 at rank 1", payload.Passages[0])
	}
	if searcher.gotK != 5 {
		t.Errorf("search k = %d, want default 5", searcher.gotK)
	}
}

func TestSearchCorpus_MaxResults(t *testing.T) {
	searcher := &stubSearcher{}
	h := newTestHandlers(&stubEmbedder{}, searcher, &stubCompleter{})

	_, err := h.SearchCorpus(context.Background(), toolRequest(map[string]interface{}{
		"query":       "breathing",
		"max_results": 3,
	}))
	if err != nil {
		t.Fatalf("SearchCorpus() error = %v", err)
	}
	if searcher.gotK != 3 {
		t.Errorf("search k = %d, want 3", searcher.gotK)
	}
}

func TestSearchCorpus_MissingQuery(t *testing.T) {
	h := newTestHandlers(&stubEmbedder{}, &stubSearcher{}, &stubCompleter{})

	result, err := h.SearchCorpus(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("SearchCorpus() error = %v", err)
	}
	if !result.IsError {
		t.Error("missing query should produce a tool error, not a protocol error")
	}
}

func TestSearchCorpus_RetrievalFailure(t *testing.T) {
	h := newTestHandlers(&stubEmbedder{err: errors.New("provider down")}, &stubSearcher{}, &stubCompleter{})

	result, err := h.SearchCorpus(context.Background(), toolRequest(map[string]interface{}{
		"query": "anything",
	}))
	if err != nil {
		t.Fatalf("SearchCorpus() error = %v", err)
	}
	if !result.IsError {
		t.Error("retrieval failure should surface as a tool error")
	}
	if !strings.Contains(resultText(t, result), "retrieval failed") {
		t.Errorf("tool error = %q, want retrieval failure message", resultText(t, result))
	}
}

func TestAsk(t *testing.T) {
	searcher := &stubSearcher{results: []models.RetrievedResult{
		{Chunk: models.Chunk{Source: "talk-1", Text: "on breathing"}, Score: 0.91, Rank: 1},
	}}
	completer := &stubCompleter{answer: "Breathe out longer than in."}
	h := newTestHandlers(&stubEmbedder{}, searcher, completer)

	result, err := h.Ask(context.Background(), toolRequest(map[string]interface{}{
		"question": "how should I breathe?",
	}))
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("Ask() returned tool error: %s", resultText(t, result))
	}

	var payload struct {
		Question     string `json:"question"`
		Answer       string `json:"answer"`
		PassagesUsed int    `json:"passages_used"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("unmarshaling tool result: %v", err)
	}
	if payload.Answer != "Breathe out longer than in." {
		t.Errorf("answer = %q, want completion output", payload.Answer)
	}
	if payload.PassagesUsed != 1 {
		t.Errorf("passages_used = %d, want 1", payload.PassagesUsed)
	}
}

func TestAsk_MissingQuestion(t *testing.T) {
	h := newTestHandlers(&stubEmbedder{}, &stubSearcher{}, &stubCompleter{})

	result, err := h.Ask(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !result.IsError {
		t.Error("missing question should produce a tool error")
	}
}

func TestAsk_CompletionFailure(t *testing.T) {
	h := newTestHandlers(&stubEmbedder{}, &stubSearcher{}, &stubCompleter{err: errors.New("overloaded")})

	result, err := h.Ask(context.Background(), toolRequest(map[string]interface{}{
		"question": "anything",
	}))
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !result.IsError {
		t.Error("completion failure should surface as a tool error")
	}
	if !strings.Contains(resultText(t, result), "completion failed") {
		t.Errorf("tool error = %q, want completion failure message", resultText(t, result))
	}
}
