package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Order Service Framework

Intro paragraph about the OMS.

## Order States

An order moves from PENDING to CONFIRMED once payment is authorized.

## Error Codes

ORD-1001 means the order was not found.
`

func TestChunker_ChunkDocument(t *testing.T) {
	chunks := NewChunker(500, 50).ChunkDocument("oms.md", sampleDoc)
	require.Len(t, chunks, 3)

	assert.Equal(t, "Order Service Framework", chunks[0].Title)
	assert.Equal(t, "Order Service Framework", chunks[0].Section)
	assert.Contains(t, chunks[0].Content, "Intro paragraph")

	assert.Equal(t, "Order States", chunks[1].Section)
	assert.Contains(t, chunks[1].Content, "PENDING to CONFIRMED")

	assert.Equal(t, "Error Codes", chunks[2].Section)
	assert.Contains(t, chunks[2].Content, "ORD-1001")

	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, "oms.md", c.Filename)
		assert.Positive(t, c.WordCount)
	}
}

func TestChunker_OverlappingWindows(t *testing.T) {
	var b strings.Builder
	b.WriteString("## Long Section\n\n")
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "word%d ", i)
	}

	chunks := NewChunker(100, 20).ChunkDocument("long.md", b.String())
	require.Len(t, chunks, 2)

	// The second window starts 80 words in, so the last 20 words of
	// chunk 0 reappear at the start of chunk 1
	assert.Contains(t, chunks[0].Content, "word99")
	assert.True(t, strings.HasPrefix(chunks[1].Content, "word80"))
	assert.Contains(t, chunks[1].Content, "word119")
}

func TestChunker_TitleFallsBackToFilename(t *testing.T) {
	chunks := NewChunker(500, 50).ChunkDocument("docs/payment-flows.md", "no headings, just text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "payment-flows", chunks[0].Title)
}

func TestChunker_EmptyDocument(t *testing.T) {
	chunks := NewChunker(500, 50).ChunkDocument("empty.md", "   \n\n  ")
	assert.Empty(t, chunks)
}
