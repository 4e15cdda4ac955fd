package genai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/infrastructure/llm"
)

func TestContextSummarizer_Summarize(t *testing.T) {
	s := NewContextSummarizer(llm.NewRuleBasedFallback(), zap.NewNop())
	ctx := context.Background()

	similar := []SimilarDefectDTO{
		{IssueKey: "OSF-2", Summary: "payment gateway timeout", Resolution: "Fixed", FixDescription: "raise timeout", Similarity: 92.0, Resolved: true},
		{IssueKey: "OSF-5", Summary: "timeout on submit", Similarity: 78.0, Resolved: false},
	}
	docs := []DocumentHitDTO{
		{Filename: "orders.md", Section: "Order States", Similarity: 55.0},
	}

	summary := s.Summarize(ctx, "orders time out during checkout", similar, docs)
	require.NotNil(t, summary)

	assert.Contains(t, summary.Overview, "OSF-2")
	assert.Contains(t, summary.LikelyCause, "Timeout")
	assert.Contains(t, summary.RecommendedAction, "raise timeout")

	insights := summary.HistoricalInsights
	assert.Equal(t, 2, insights.TotalSimilar)
	assert.Equal(t, 1, insights.ResolvedCount)
	assert.Equal(t, 50.0, insights.ResolutionRate)
	assert.Equal(t, 85.0, insights.AvgSimilarity)

	require.Len(t, summary.DocumentInsights, 1)
	assert.Equal(t, "orders.md (Order States)", summary.DocumentInsights[0])
	assert.NotEmpty(t, summary.FullSummary)
}

func TestContextSummarizer_NoHistory(t *testing.T) {
	s := NewContextSummarizer(llm.NewRuleBasedFallback(), zap.NewNop())

	summary := s.Summarize(context.Background(), "brand new failure", nil, nil)
	require.NotNil(t, summary)
	assert.Contains(t, summary.Overview, "new failure mode")
	assert.Zero(t, summary.HistoricalInsights.TotalSimilar)
	assert.Zero(t, summary.HistoricalInsights.ResolutionRate)
	assert.NotEmpty(t, summary.RecommendedAction)
	assert.NotEmpty(t, summary.FullSummary)
}
