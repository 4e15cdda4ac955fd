package genai

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/infrastructure/chunking"
	"github.com/skute123/genai-defect-management/internal/infrastructure/vectorstore"
)

func documentFixture(t *testing.T) (*DocumentService, *stubEmbedder) {
	t.Helper()

	kbDir := t.TempDir()
	writeDoc := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(kbDir, name), []byte(content), 0o644))
	}
	writeDoc("orders.md", "# Order States\n\npayment callback confirms the order")
	writeDoc("errors.md", "# Error Codes\n\nORD-1001 means order not found")
	writeDoc("notes.txt", "not markdown, ignored")

	store, err := vectorstore.NewCollection(t.TempDir(), "documents")
	require.NoError(t, err)

	embedder := newStubEmbedder(3)
	embedder.set("payment callback confirms the order", []float32{1, 0, 0})
	embedder.set("ORD-1001 means order not found", []float32{0, 1, 0})

	svc := NewDocumentService(embedder, store, chunking.NewChunker(500, 50), kbDir, zap.NewNop())
	return svc, embedder
}

func TestDocumentService_IndexAndSearch(t *testing.T) {
	svc, embedder := documentFixture(t)
	ctx := context.Background()

	report, err := svc.IndexKnowledgeBase(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)

	embedder.set("how is an order confirmed", []float32{0.9, 0.1, 0})

	hits, err := svc.Search(ctx, "how is an order confirmed", 5, DefaultDocumentMin)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "orders.md", hits[0].Filename)
	assert.Equal(t, "Order States", hits[0].Section)
	assert.Contains(t, hits[0].Content, "payment callback")
}

func TestDocumentService_KeywordFallback(t *testing.T) {
	svc, _ := documentFixture(t)
	ctx := context.Background()

	_, err := svc.IndexKnowledgeBase(ctx)
	require.NoError(t, err)

	// The query embeds to a zero vector, so the cosine search finds
	// nothing and the keyword scan answers
	hits, err := svc.Search(ctx, "ORD-1001", 5, DefaultDocumentSearchMin)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "errors.md", hits[0].Filename)
}

func TestDocumentService_EmptyQuery(t *testing.T) {
	svc, _ := documentFixture(t)
	_, err := svc.Search(context.Background(), "  ", 5, DefaultDocumentSearchMin)
	assert.Error(t, err)
}
