// ABOUTME: OpenAI client for embeddings and streamed chat completions
// ABOUTME: Validates embedding dimensions and preserves batch ordering
package llm

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Dimension      int
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
}

// Client wraps the OpenAI API for the retrieval core. It does not retry:
// a failed call surfaces as *ProviderError and the caller decides.
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimension      int
	temperature    float32
	maxTokens      int
	timeout        time.Duration
}

// NewClient creates a Client from config. APIKey and Dimension are required.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("embedding dimension must be positive")
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		chatModel:      chatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		dimension:      cfg.Dimension,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
		timeout:        cfg.Timeout,
	}, nil
}

// withTimeout bounds a single non-streamed call. Streams are excluded: a
// healthy stream can legitimately outlive any per-request deadline, so its
// lifetime belongs to the caller's context.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request. The returned slice matches the
// input ordering exactly: vectors[i] corresponds to texts[i].
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, &ProviderError{Op: "embeddings", Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &ProviderError{
			Op:  "embeddings",
			Err: errors.New("response count does not match input count"),
		}
	}

	// The API reports an index per vector; order by it rather than trusting
	// response order.
	data := make([]openai.Embedding, len(resp.Data))
	copy(data, resp.Data)
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float64, len(data))
	for i, d := range data {
		if len(d.Embedding) != c.dimension {
			return nil, &DimensionMismatchError{Want: c.dimension, Got: len(d.Embedding)}
		}
		vectors[i] = toFloat64(d.Embedding)
	}
	return vectors, nil
}

// Complete runs a non-streamed chat completion. Used by the CLI and MCP
// surfaces where incremental output has no consumer.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, c.chatRequest(systemPrompt, userMessage))
	if err != nil {
		return "", &ProviderError{Op: "completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Op: "completion", Err: errors.New("no completion choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream runs a streamed chat completion. Fragments arrive on the first
// channel as the provider produces them; the fragment channel closes at
// end-of-stream. A mid-stream failure is delivered on the error channel.
// Cancelling ctx abandons the in-flight call.
func (c *Client) Stream(ctx context.Context, systemPrompt, userMessage string) (<-chan string, <-chan error) {
	fragments := make(chan string)
	errc := make(chan error, 1)

	req := c.chatRequest(systemPrompt, userMessage)
	req.Stream = true

	go func() {
		defer close(fragments)

		stream, err := c.api.CreateChatCompletionStream(ctx, req)
		if err != nil {
			errc <- &ProviderError{Op: "completion stream", Err: err}
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errc <- &ProviderError{Op: "completion stream", Err: err}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case fragments <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()

	return fragments, errc
}

func (c *Client) chatRequest(systemPrompt, userMessage string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
