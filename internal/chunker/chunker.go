// Package chunker splits raw CV text into overlapping segments and
// prefixes each segment with the candidate's identity header, so that a
// chunk retrieved in isolation still identifies who it belongs to.
package chunker

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// New builds a chunker with the given segment size and overlap. A
// non-positive size and a negative overlap fall back to the defaults.
func New(chunkSize, chunkOverlap int) Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(models.ChunkSeparators),
		),
	}
}

// Split returns the document's segments in document order.
func (c Chunker) Split(text string) ([]string, error) {
	return c.splitter.SplitText(text)
}

// Enrich prepends the identity header to a segment body.
func Enrich(segment string, p models.Profile) string {
	return fmt.Sprintf(models.EnrichedChunkTemplate, p.Email, p.Name, p.Address, p.Role, segment)
}

// SplitAndEnrich splits the text and enriches every segment.
func (c Chunker) SplitAndEnrich(text string, p models.Profile) ([]string, error) {
	segments, err := c.Split(text)
	if err != nil {
		return nil, fmt.Errorf("splitting document: %w", err)
	}
	enriched := make([]string, len(segments))
	for i, segment := range segments {
		enriched[i] = Enrich(segment, p)
	}
	return enriched, nil
}
