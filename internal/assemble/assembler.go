// ABOUTME: Assembler formats retrieved passages into a bounded persona-led context
// ABOUTME: Overflow drops whole lowest-ranked passages, never mid-passage text
package assemble

import (
	"fmt"
	"strings"

	"lectern/internal/models"
)

// PassageSeparator visually divides retrieved passages so the downstream
// model can tell them apart.
const PassageSeparator = "\n---\n"

const passagesHeader = "RETRIEVED PASSAGES:"

// emptyNote keeps the context coherent when retrieval found nothing.
const emptyNote = "No supporting passages were retrieved for this question. Answer from general knowledge and say so."

// Assembler builds completion context from ranked retrieval results.
type Assembler struct {
	maxContextChars int
}

// New creates an Assembler. maxContextChars bounds the assembled context;
// the persona prompt is always included even if it alone exceeds the bound.
func New(maxContextChars int) *Assembler {
	if maxContextChars <= 0 {
		maxContextChars = 6000
	}
	return &Assembler{maxContextChars: maxContextChars}
}

// Assemble prepends personaPrompt to the results in rank order, each passage
// annotated with its 1-based index and source name. When the budget would be
// exceeded, lowest-ranked passages are dropped from the end first.
func (a *Assembler) Assemble(results []models.RetrievedResult, personaPrompt string) string {
	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\n")

	if len(results) == 0 {
		b.WriteString(emptyNote)
		return b.String()
	}

	b.WriteString(passagesHeader)
	used := b.Len()

	var passages []string
	for i, res := range results {
		passage := fmt.Sprintf("\n[%d] (%s)\n%s", i+1, res.Chunk.Source, res.Chunk.Text)
		cost := len(passage)
		if len(passages) > 0 {
			cost += len(PassageSeparator)
		}
		if used+cost > a.maxContextChars {
			break
		}
		passages = append(passages, passage)
		used += cost
	}

	if len(passages) == 0 {
		// Budget too small for even the top passage; fall back to the
		// unaugmented form rather than emit a broken fragment.
		return a.Assemble(nil, personaPrompt)
	}

	b.WriteString(strings.Join(passages, PassageSeparator))
	return b.String()
}
