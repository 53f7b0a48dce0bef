// ABOUTME: Document is a named corpus source handed to the ingestion pipeline
// ABOUTME: IngestReport summarizes one pipeline run per source outcome
package models

// Document is one named text source from the corpus.
type Document struct {
	Name string
	Text string
}

// IngestFailure records a source whose ingestion was aborted.
type IngestFailure struct {
	Source string
	Err    error
}

// IngestReport summarizes an ingestion run. A source appears in exactly
// one of the three lists.
type IngestReport struct {
	Ingested []string
	Skipped  []string
	Failed   []IngestFailure
}

// FailedSources returns just the names of failed sources.
func (r IngestReport) FailedSources() []string {
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Source)
	}
	return names
}
