// ABOUTME: Chunk persistence operations, vectors stored as little-endian BLOBs
// ABOUTME: ReplaceSource swaps a source's full chunk set in one transaction
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"lectern/internal/models"
)

// Record is a persisted (chunk, vector) pair with its ingestion timestamp.
type Record struct {
	Chunk      models.Chunk
	Vector     []float64
	IngestedAt time.Time
}

// SourceMeta is one row of the ingestion-tracking table.
type SourceMeta struct {
	Name        string
	ContentHash string
	IngestedAt  time.Time
}

// ReplaceSource atomically replaces every chunk of a source and upserts its
// tracking row. Either all chunks land or none do.
func (db *DB) ReplaceSource(source, contentHash string, records []Record) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace of %s: %w", source, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		INSERT INTO sources (name, content_hash, ingested_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			content_hash = excluded.content_hash,
			ingested_at = excluded.ingested_at
	`, source, contentHash, now); err != nil {
		return fmt.Errorf("upsert source %s: %w", source, err)
	}

	if _, err := tx.Exec(`DELETE FROM chunks WHERE source = ?`, source); err != nil {
		return fmt.Errorf("clear chunks of %s: %w", source, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (source, ordinal, chunk_id, text, overlap_words, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		c := rec.Chunk
		if _, err := stmt.Exec(c.Source, c.Ordinal, c.ChunkID, c.Text, c.OverlapWords,
			vectorToBlob(rec.Vector), now); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace of %s: %w", source, err)
	}
	return nil
}

// DeleteSource removes a source and (by cascade) its chunks.
func (db *DB) DeleteSource(source string) error {
	_, err := db.Exec(`DELETE FROM sources WHERE name = ?`, source)
	return err
}

// GetSource returns the tracking row for a source, or nil when absent.
func (db *DB) GetSource(name string) (*SourceMeta, error) {
	var meta SourceMeta
	err := db.QueryRow(`
		SELECT name, content_hash, ingested_at FROM sources WHERE name = ?
	`, name).Scan(&meta.Name, &meta.ContentHash, &meta.IngestedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListSources returns all tracking rows.
func (db *DB) ListSources() ([]SourceMeta, error) {
	rows, err := db.Query(`SELECT name, content_hash, ingested_at FROM sources ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []SourceMeta
	for rows.Next() {
		var m SourceMeta
		if err := rows.Scan(&m.Name, &m.ContentHash, &m.IngestedAt); err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// LoadRecords returns every persisted record in ingestion order.
func (db *DB) LoadRecords() ([]Record, error) {
	rows, err := db.Query(`
		SELECT source, ordinal, chunk_id, text, overlap_words, vector, created_at
		FROM chunks
		ORDER BY created_at, source, ordinal
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var blob []byte
		if err := rows.Scan(&rec.Chunk.Source, &rec.Chunk.Ordinal, &rec.Chunk.ChunkID,
			&rec.Chunk.Text, &rec.Chunk.OverlapWords, &blob, &rec.IngestedAt); err != nil {
			return nil, err
		}
		rec.Vector = blobToVector(blob)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
