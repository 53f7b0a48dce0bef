// ABOUTME: Error types for remote model calls
// ABOUTME: ProviderError wraps transport failures, DimensionMismatchError is fatal per source
package llm

import "fmt"

// ProviderError indicates a remote embedding or completion call failed
// (network, auth, quota). The core never retries it; retry policy belongs
// to the calling transport.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// DimensionMismatchError indicates the provider returned a vector whose
// dimension differs from the configured one. Never coerced; the affected
// source's ingestion is aborted.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}
