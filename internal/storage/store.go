// ABOUTME: Vector store combining SQLite persistence with an in-memory cosine index
// ABOUTME: Searches never block each other; writes are serialized per source
package storage

import (
	"fmt"
	"sort"
	"sync"

	"lectern/internal/models"
	"lectern/internal/storage/sqlite"
)

// Store persists (chunk, embedding) records keyed by (source, ordinal) and
// serves brute-force cosine similarity search from an in-memory copy that
// is hydrated at open and swapped per source after each committed write.
//
// Similarity metric: cosine. Scores are comparable only while the metric
// stays fixed; changing it invalidates stored score comparisons, not vectors.
type Store struct {
	db *sqlite.DB

	mu      sync.RWMutex
	records []sqlite.Record   // ingestion order
	sources map[string]string // source name -> content hash

	lockMu  sync.Mutex
	srcLock map[string]*sync.Mutex
}

// Open opens the store at path, creating the database if needed, and
// hydrates the in-memory index.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}

	records, err := db.LoadRecords()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading records: %w", err)
	}
	metas, err := db.ListSources()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading sources: %w", err)
	}

	sources := make(map[string]string, len(metas))
	for _, m := range metas {
		sources[m.Name] = m.ContentHash
	}

	return &Store{
		db:      db,
		records: records,
		sources: sources,
		srcLock: map[string]*sync.Mutex{},
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// IsIngested reports whether source is already stored with the same content
// hash. An edited document (different hash) reads as not ingested so it is
// re-processed.
func (s *Store) IsIngested(source, contentHash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.sources[source]
	return ok && hash == contentHash
}

// Sources returns the ingestion-tracking rows.
func (s *Store) Sources() ([]sqlite.SourceMeta, error) {
	return s.db.ListSources()
}

// ReplaceSource replaces every chunk of one source atomically: the database
// write is transactional and the in-memory index swaps the source's records
// only after commit, so a search sees the old set or the new set, never a
// partial one. Writes for the same source are serialized; different sources
// proceed concurrently.
func (s *Store) ReplaceSource(source, contentHash string, chunks []models.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	lock := s.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()

	records := make([]sqlite.Record, len(chunks))
	for i := range chunks {
		records[i] = sqlite.Record{Chunk: chunks[i], Vector: vectors[i]}
	}

	if err := s.db.ReplaceSource(source, contentHash, records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0:0]
	for _, rec := range s.records {
		if rec.Chunk.Source != source {
			kept = append(kept, rec)
		}
	}
	s.records = append(kept, records...)
	s.sources[source] = contentHash
	return nil
}

// DeleteSource removes a source and its chunks.
func (s *Store) DeleteSource(source string) error {
	lock := s.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()

	if err := s.db.DeleteSource(source); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0:0]
	for _, rec := range s.records {
		if rec.Chunk.Source != source {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	delete(s.sources, source)
	return nil
}

// Search returns up to k chunks ranked by descending cosine similarity to
// queryVector. Ties keep ingestion order. An empty store returns no results
// and no error.
func (s *Store) Search(queryVector []float64, k int) ([]models.RetrievedResult, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	scored := make([]models.RetrievedResult, 0, len(s.records))
	for _, rec := range s.records {
		scored = append(scored, models.RetrievedResult{
			Chunk: rec.Chunk,
			Score: cosineSimilarity(queryVector, rec.Vector),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored, nil
}

func (s *Store) sourceLock(source string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.srcLock[source]
	if !ok {
		lock = &sync.Mutex{}
		s.srcLock[source] = lock
	}
	return lock
}
