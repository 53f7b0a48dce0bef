// ABOUTME: SQLite schema for corpus chunk and source tracking storage
// ABOUTME: Chunks are keyed by (source, ordinal), sources carry a content hash
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Ingestion tracking, one row per source document
CREATE TABLE IF NOT EXISTS sources (
    name TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    ingested_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chunk rows pair text with its embedding vector
CREATE TABLE IF NOT EXISTS chunks (
    source TEXT NOT NULL REFERENCES sources(name) ON DELETE CASCADE,
    ordinal INTEGER NOT NULL,
    chunk_id TEXT NOT NULL,
    text TEXT NOT NULL,
    overlap_words INTEGER DEFAULT 0,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (source, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
`
