// ABOUTME: Corpus loading from a directory of plain-text transcripts
// ABOUTME: Documents are named by their base filename, read-only
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lectern/internal/models"
)

// LoadCorpus reads every .txt file under dir (non-recursive) into a corpus,
// ordered by name. The source name is the base filename without extension.
func LoadCorpus(dir string) ([]models.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var docs []models.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		docs = append(docs, models.Document{
			Name: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Text: string(data),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}
