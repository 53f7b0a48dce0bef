// ABOUTME: Chunker splits transcript text into overlapping word-bounded segments
// ABOUTME: Accumulates whole sentences per chunk, adjacent chunks share a word overlap
package chunker

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"lectern/internal/models"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*`)

// Chunker splits documents into ordered, overlapping chunks. It holds no
// per-document state, so one instance can chunk any number of documents.
type Chunker struct {
	maxWords     int
	overlapWords int
}

// New creates a Chunker. maxWords bounds the new words per chunk, overlapWords
// is how many trailing words of a chunk reappear at the start of the next one.
// The overlap rides on top of the budget so it never starves a chunk of content.
func New(maxWords, overlapWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = 200
	}
	if overlapWords < 0 {
		overlapWords = 0
	}
	if overlapWords >= maxWords {
		overlapWords = maxWords / 4
	}
	return &Chunker{maxWords: maxWords, overlapWords: overlapWords}
}

// Chunk splits sourceText into ordered chunks attributed to sourceName.
// Chunks break at sentence boundaries: sentences accumulate until the next
// one would exceed the word budget. A document shorter than one budget yields
// exactly one chunk. A single sentence longer than the budget is emitted as
// its own oversized chunk rather than cut mid-sentence.
func (c *Chunker) Chunk(sourceText, sourceName string) []models.Chunk {
	sentences := splitSentences(sourceText)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []models.Chunk
	var cur []string
	var tail []string

	flush := func() {
		if len(cur) == 0 {
			return
		}
		text := strings.Join(append(append([]string{}, tail...), cur...), " ")
		chunks = append(chunks, models.Chunk{
			ChunkID:      "chunk_" + uuid.New().String(),
			Source:       sourceName,
			Ordinal:      len(chunks),
			Text:         text,
			OverlapWords: len(tail),
		})
		words := append(tail, cur...)
		if c.overlapWords > 0 && len(words) > c.overlapWords {
			tail = append([]string{}, words[len(words)-c.overlapWords:]...)
		} else {
			tail = nil
		}
		cur = nil
	}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}
		if len(cur) > 0 && len(cur)+len(words) > c.maxWords {
			flush()
		}
		cur = append(cur, words...)
	}
	flush()

	return chunks
}

// splitSentences breaks text at sentence terminators, keeping the terminator
// with its sentence. Text after the final terminator (or text with none at
// all) comes back as one trailing sentence.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[0]]); s != "" {
			sentences = append(sentences, s)
		}
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
