// ABOUTME: Retriever embeds a query and runs top-k cosine search against the store
// ABOUTME: An empty store yields empty results, never an error
package retrieval

import (
	"context"
	"fmt"

	"lectern/internal/models"
)

// Embedder produces the query embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Searcher is the read side of the vector store.
type Searcher interface {
	Search(queryVector []float64, k int) ([]models.RetrievedResult, error)
}

// Retriever answers queries with ranked, scored chunks. k is a latency/quality
// tunable: interactive chat typically passes a smaller k than batch-ish
// callers, and k <= 0 falls back to the configured default.
type Retriever struct {
	embedder Embedder
	store    Searcher
	defaultK int
}

// New creates a Retriever. defaultK is used when a caller passes k <= 0.
func New(embedder Embedder, store Searcher, defaultK int) *Retriever {
	if defaultK <= 0 {
		defaultK = 10
	}
	return &Retriever{embedder: embedder, store: store, defaultK: defaultK}
}

// Retrieve embeds query and returns up to k results ordered by descending
// similarity. Embedding failures propagate: no answer can be produced
// without retrieval, so the error is the caller's to surface.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedResult, error) {
	if k <= 0 {
		k = r.defaultK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.store.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching store: %w", err)
	}
	return results, nil
}
