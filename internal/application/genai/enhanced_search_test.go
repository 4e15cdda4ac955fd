package genai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/shared"
	"github.com/skute123/genai-defect-management/internal/infrastructure/chunking"
	"github.com/skute123/genai-defect-management/internal/infrastructure/llm"
	"github.com/skute123/genai-defect-management/internal/infrastructure/vectorstore"
)

func enhancedFixture(t *testing.T) (*EnhancedSearchService, *mockRepo, *stubEmbedder) {
	t.Helper()

	similarity, repo, embedder := similarityFixture(t)
	indexFixtureDefects(t, similarity, repo, embedder)

	docStore, err := vectorstore.NewCollection(t.TempDir(), "documents")
	require.NoError(t, err)
	docStore.Upsert([]vectorstore.Entry{{
		ID:     "payments.md#0",
		Vector: []float32{1, 0, 0},
		Metadata: map[string]string{
			"filename": "payments.md",
			"title":    "Payment Processing",
			"section":  "Timeout Handling",
		},
		Text: "Gateway calls time out after 30 seconds by default.",
	}})

	documents := NewDocumentService(embedder, docStore, chunking.NewChunker(500, 50), t.TempDir(), zap.NewNop())
	suggester := NewResolutionSuggester(llm.NewRuleBasedFallback(), zap.NewNop())
	summarizer := NewContextSummarizer(llm.NewRuleBasedFallback(), zap.NewNop())

	svc := NewEnhancedSearchService(similarity, documents, suggester, summarizer, zap.NewNop())
	return svc, repo, embedder
}

// The issue-key flow must query the knowledge base with the defect's
// own text. Embedding the bare key scores near zero against every
// chunk and comes back empty.
func TestEnhancedSearch_ByIssueKey_QueriesDocumentsWithDefectText(t *testing.T) {
	svc, _, embedder := enhancedFixture(t)
	ctx := context.Background()

	// OSF-1's document query is its summary; the bare key stays unmapped
	// and embeds to the zero vector
	embedder.set("payment timeout", []float32{1, 0, 0})

	result, err := svc.SearchByIssueKey(ctx, "osf-1", 5)
	require.NoError(t, err)

	assert.Equal(t, "OSF-1", result.IssueKey)
	assert.Equal(t, "payment timeout", result.Query)

	require.NotEmpty(t, result.Documents)
	assert.Equal(t, "payments.md", result.Documents[0].Filename)
	assert.Equal(t, "Timeout Handling", result.Documents[0].Section)

	require.Len(t, result.SimilarDefects, 1)
	assert.Equal(t, "OSF-2", result.SimilarDefects[0].IssueKey)
	require.NotNil(t, result.Suggestion)
	require.NotNil(t, result.Summary)
}

func TestEnhancedSearch_ByIssueKey_UnknownKey(t *testing.T) {
	svc, repo, _ := enhancedFixture(t)
	ctx := context.Background()

	repo.On("FindByIssueKey", ctx, mock.Anything, "OSF-404").Return(nil, shared.ErrNotFound)

	_, err := svc.SearchByIssueKey(ctx, "OSF-404", 5)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestEnhancedSearch_ByText(t *testing.T) {
	svc, _, embedder := enhancedFixture(t)
	ctx := context.Background()

	embedder.set("payment gateway keeps timing out", []float32{0.97, 0.03, 0})

	result, err := svc.SearchByText(ctx, "payment gateway keeps timing out", 5)
	require.NoError(t, err)

	assert.Equal(t, "payment gateway keeps timing out", result.Query)
	assert.Empty(t, result.IssueKey)
	assert.NotEmpty(t, result.SimilarDefects)
}
