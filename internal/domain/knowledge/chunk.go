package knowledge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DocumentChunk is a searchable slice of a knowledge base document
type DocumentChunk struct {
	ID         string
	Filename   string
	Title      string
	Section    string
	Content    string
	ChunkIndex int
	WordCount  int
}

// NewDocumentChunk builds a chunk with a stable-enough identity and
// a derived word count
func NewDocumentChunk(filename, title, section, content string, index int) DocumentChunk {
	return DocumentChunk{
		ID:         fmt.Sprintf("%s#%d-%s", filename, index, uuid.NewString()[:8]),
		Filename:   filename,
		Title:      title,
		Section:    section,
		Content:    content,
		ChunkIndex: index,
		WordCount:  len(strings.Fields(content)),
	}
}

// SearchResult is a chunk matched against a query with its score
type SearchResult struct {
	Chunk      DocumentChunk
	Similarity float64
}
