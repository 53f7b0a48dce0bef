// ABOUTME: Ingestion pipeline driving chunker, embedder, and store per source
// ABOUTME: A failed source aborts without partial upsert; the run continues
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"

	"lectern/internal/models"
)

// Chunker splits one document into ordered chunks.
type Chunker interface {
	Chunk(sourceText, sourceName string) []models.Chunk
}

// Embedder turns texts into fixed-dimension vectors, preserving order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Store is the slice of the vector store the pipeline needs.
type Store interface {
	IsIngested(source, contentHash string) bool
	ReplaceSource(source, contentHash string, chunks []models.Chunk, vectors [][]float64) error
}

// Pipeline populates the vector store from a corpus, skipping sources whose
// content is already stored unless Force is set.
type Pipeline struct {
	chunker   Chunker
	embedder  Embedder
	store     Store
	batchSize int
	force     bool
	logger    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithForce re-ingests sources even when their content hash matches.
func WithForce(force bool) Option {
	return func(p *Pipeline) { p.force = force }
}

// WithBatchSize bounds how many chunk texts go into one embedding request.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates an ingestion pipeline.
func New(chunker Chunker, embedder Embedder, store Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		batchSize: 32,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest processes each corpus document: chunk, embed in batches, then
// replace the source's stored set atomically. A failure while embedding any
// chunk fails that source only; nothing partial is stored for it and the run
// moves on to the next source. Re-running the same corpus re-attempts only
// failed or edited sources.
func (p *Pipeline) Ingest(ctx context.Context, corpus []models.Document) models.IngestReport {
	var report models.IngestReport

	for _, doc := range corpus {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, models.IngestFailure{Source: doc.Name, Err: err})
			continue
		}

		hash := ContentHash(doc.Text)
		if !p.force && p.store.IsIngested(doc.Name, hash) {
			p.logger.Debug("source unchanged, skipping", zap.String("source", doc.Name))
			report.Skipped = append(report.Skipped, doc.Name)
			continue
		}

		if err := p.ingestSource(ctx, doc, hash); err != nil {
			p.logger.Warn("source ingestion failed",
				zap.String("source", doc.Name),
				zap.Error(err))
			report.Failed = append(report.Failed, models.IngestFailure{Source: doc.Name, Err: err})
			continue
		}
		report.Ingested = append(report.Ingested, doc.Name)
	}

	p.logger.Info("ingestion run complete",
		zap.Int("ingested", len(report.Ingested)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)))
	return report
}

func (p *Pipeline) ingestSource(ctx context.Context, doc models.Document, hash string) error {
	chunks := p.chunker.Chunk(doc.Text, doc.Name)
	if len(chunks) == 0 {
		// An empty document still gets a tracking row so re-runs skip it.
		return p.store.ReplaceSource(doc.Name, hash, nil, nil)
	}

	vectors := make([][]float64, 0, len(chunks))
	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}
		batch, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		vectors = append(vectors, batch...)
	}

	return p.store.ReplaceSource(doc.Name, hash, chunks, vectors)
}

// ContentHash returns the content-addressing hash for a source document:
// sha-256 over the lowercased, whitespace-collapsed text, so cosmetic
// reformatting does not force re-ingestion but any wording change does.
func ContentHash(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
