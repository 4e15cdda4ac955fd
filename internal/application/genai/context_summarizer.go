package genai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/infrastructure/llm"
)

// ContextSummarizer condenses similar defects and documentation into
// a short briefing for the person triaging a defect
type ContextSummarizer struct {
	generator llm.Generator
	logger    *zap.Logger
}

// NewContextSummarizer creates the summarizer
func NewContextSummarizer(generator llm.Generator, logger *zap.Logger) *ContextSummarizer {
	return &ContextSummarizer{generator: generator, logger: logger}
}

// Summarize builds the context summary for a problem statement
func (s *ContextSummarizer) Summarize(ctx context.Context, problem string, similar []SimilarDefectDTO, docs []DocumentHitDTO) *SummaryDTO {
	summary := &SummaryDTO{
		Overview:           s.overview(problem, similar),
		LikelyCause:        likelyCause(similar),
		RecommendedAction:  recommendedAction(similar),
		HistoricalInsights: historicalInsights(similar),
		DocumentInsights:   documentInsights(docs),
	}
	summary.FullSummary = s.fullSummary(ctx, problem, summary, similar)
	return summary
}

func (s *ContextSummarizer) overview(problem string, similar []SimilarDefectDTO) string {
	if len(similar) == 0 {
		return fmt.Sprintf("No historical defects closely match %q. This may be a new failure mode.", problem)
	}
	return fmt.Sprintf("%d historical defect(s) resemble this problem, led by %s at %.1f%% similarity.",
		len(similar), similar[0].IssueKey, similar[0].Similarity)
}

func likelyCause(similar []SimilarDefectDTO) string {
	causes := rootCauseBreakdown(similar)
	if len(causes) == 0 {
		return "Not enough matching history to estimate a cause."
	}
	return fmt.Sprintf("%s (seen in %d of the similar defects)", causes[0].Category, causes[0].Count)
}

func recommendedAction(similar []SimilarDefectDTO) string {
	for _, d := range similar {
		if d.Resolved && strings.TrimSpace(d.FixDescription) != "" {
			return fmt.Sprintf("Review the fix applied in %s: %s", d.IssueKey, d.FixDescription)
		}
	}
	if len(similar) > 0 {
		return fmt.Sprintf("Compare against %s, the closest historical defect.", similar[0].IssueKey)
	}
	return "Reproduce in the lower environment and capture logs before triage."
}

func historicalInsights(similar []SimilarDefectDTO) HistoricalInsightsDTO {
	insights := HistoricalInsightsDTO{TotalSimilar: len(similar)}
	if len(similar) == 0 {
		return insights
	}

	var simSum float64
	for _, d := range similar {
		if d.Resolved {
			insights.ResolvedCount++
		}
		simSum += d.Similarity
	}
	insights.ResolutionRate = math.Round(float64(insights.ResolvedCount)/float64(len(similar))*10000) / 100
	insights.AvgSimilarity = math.Round(simSum/float64(len(similar))*10) / 10
	return insights
}

func documentInsights(docs []DocumentHitDTO) []string {
	insights := make([]string, 0, len(docs))
	for _, d := range docs {
		ref := d.Filename
		if d.Section != "" {
			ref = fmt.Sprintf("%s (%s)", d.Filename, d.Section)
		}
		insights = append(insights, ref)
	}
	return insights
}

func (s *ContextSummarizer) fullSummary(ctx context.Context, problem string, summary *SummaryDTO, similar []SimilarDefectDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the situation for a defect triager.\n\nProblem: %s\n", problem)
	fmt.Fprintf(&b, "Similar defects: %d (resolved: %d, resolution rate %.2f%%)\n",
		summary.HistoricalInsights.TotalSimilar,
		summary.HistoricalInsights.ResolvedCount,
		summary.HistoricalInsights.ResolutionRate)
	for i, d := range similar {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- %s (%.1f%%): %s / %s\n", d.IssueKey, d.Similarity, d.Summary, d.Resolution)
	}
	fmt.Fprintf(&b, "Likely cause: %s\nRecommended action: %s\n", summary.LikelyCause, summary.RecommendedAction)

	out, err := s.generator.Generate(ctx, b.String())
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			s.logger.Warn("Summary generation failed", zap.Error(err))
		}
		// Deterministic fallback stitched from the computed parts
		return fmt.Sprintf("%s Likely cause: %s. Recommended action: %s",
			summary.Overview, summary.LikelyCause, summary.RecommendedAction)
	}
	return out
}
