// ABOUTME: RetrievedResult is an ephemeral per-query search hit
// ABOUTME: Ordered by descending cosine similarity, rank is 1-based
package models

// RetrievedResult pairs a chunk with its similarity score for one query.
type RetrievedResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}
