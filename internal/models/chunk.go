// ABOUTME: Chunk is the unit of retrieval: a bounded span of transcript text
// ABOUTME: Chunks are produced once by the chunker and immutable thereafter
package models

import "strconv"

// Chunk represents a contiguous span of a source document.
type Chunk struct {
	ChunkID      string `json:"chunk_id"`
	Source       string `json:"source"`
	Ordinal      int    `json:"ordinal"`
	Text         string `json:"text"`
	OverlapWords int    `json:"overlap_words,omitempty"`
}

// Key returns the identity a chunk is upserted under: (source, ordinal).
func (c Chunk) Key() string {
	return c.Source + "#" + strconv.Itoa(c.Ordinal)
}
