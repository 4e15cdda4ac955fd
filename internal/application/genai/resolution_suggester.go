package genai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/infrastructure/llm"
)

// Confidence thresholds on the top similarity percentage
const (
	confidenceHighMin   = 90.0
	confidenceMediumMin = 75.0
)

// rootCauseTaxonomy maps symptom keywords to a root cause category.
// Order matters: the first matching bucket wins per defect.
var rootCauseTaxonomy = []struct {
	category string
	keywords []string
}{
	{"Timeout / Performance Issues", []string{"timeout", "slow", "latency", "performance"}},
	{"Validation Issues", []string{"validation", "invalid", "format", "schema"}},
	{"Null / Missing Data", []string{"null", "nil", "missing", "empty"}},
	{"Database Issues", []string{"database", "sql", "query", "deadlock"}},
	{"API / Integration Issues", []string{"api", "endpoint", "http", "interface"}},
	{"Configuration Issues", []string{"configuration", "config", "property", "parameter"}},
	{"Authentication Issues", []string{"authentication", "authorization", "token", "credential"}},
	{"Memory Issues", []string{"memory", "oom", "heap", "leak"}},
	{"Network Issues", []string{"network", "connection", "dns", "socket"}},
	{"Data Issues", []string{"data", "mapping", "conversion", "encoding"}},
}

// ResolutionSuggester proposes fixes based on similar resolved defects
type ResolutionSuggester struct {
	generator llm.Generator
	logger    *zap.Logger
}

// NewResolutionSuggester creates the suggester
func NewResolutionSuggester(generator llm.Generator, logger *zap.Logger) *ResolutionSuggester {
	return &ResolutionSuggester{generator: generator, logger: logger}
}

// Suggest derives a resolution proposal from the similar-defect list.
// Returns nil when no resolved neighbor exists to learn from.
func (s *ResolutionSuggester) Suggest(ctx context.Context, problem string, similar []SimilarDefectDTO) *SuggestionDTO {
	var best *SimilarDefectDTO
	for i := range similar {
		if !similar[i].Resolved {
			continue
		}
		if best == nil || similar[i].Similarity > best.Similarity {
			best = &similar[i]
		}
	}
	if best == nil {
		return nil
	}

	suggestion := &SuggestionDTO{
		TopSimilarity:   best.Similarity,
		Confidence:      confidenceFor(best.Similarity),
		BasedOnIssueKey: best.IssueKey,
		SuggestedFix:    bestFixText(best),
		RootCauses:      rootCauseBreakdown(similar),
	}

	suggestion.Narrative = s.narrative(ctx, problem, best)
	return suggestion
}

func confidenceFor(similarity float64) string {
	switch {
	case similarity >= confidenceHighMin:
		return "high"
	case similarity >= confidenceMediumMin:
		return "medium"
	default:
		return "low"
	}
}

func bestFixText(d *SimilarDefectDTO) string {
	if strings.TrimSpace(d.FixDescription) != "" {
		return d.FixDescription
	}
	if strings.TrimSpace(d.Resolution) != "" {
		return fmt.Sprintf("Resolved as %q in %s.", d.Resolution, d.IssueKey)
	}
	return fmt.Sprintf("See resolution of %s.", d.IssueKey)
}

// rootCauseBreakdown classifies each similar defect into the first
// matching taxonomy bucket and reports shares of the classified total
func rootCauseBreakdown(similar []SimilarDefectDTO) []RootCauseDTO {
	counts := make(map[string]int)
	classified := 0

	for _, d := range similar {
		text := strings.ToLower(d.Summary + " " + d.FixDescription + " " + d.Resolution)
		for _, bucket := range rootCauseTaxonomy {
			matched := false
			for _, kw := range bucket.keywords {
				if strings.Contains(text, kw) {
					matched = true
					break
				}
			}
			if matched {
				counts[bucket.category]++
				classified++
				break
			}
		}
	}
	if classified == 0 {
		return nil
	}

	causes := make([]RootCauseDTO, 0, len(counts))
	for category, count := range counts {
		pct := decimal.NewFromInt(int64(count)).
			Div(decimal.NewFromInt(int64(classified))).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			InexactFloat64()
		causes = append(causes, RootCauseDTO{Category: category, Count: count, Percentage: pct})
	}

	sort.Slice(causes, func(i, j int) bool {
		if causes[i].Count != causes[j].Count {
			return causes[i].Count > causes[j].Count
		}
		return causes[i].Category < causes[j].Category
	})
	return causes
}

func (s *ResolutionSuggester) narrative(ctx context.Context, problem string, best *SimilarDefectDTO) string {
	prompt := fmt.Sprintf(
		"A defect was reported: %s\n\nThe most similar resolved defect is %s (%.1f%% similar), fixed with: %s\n\nSuggest a concise resolution approach.",
		problem, best.IssueKey, best.Similarity, bestFixText(best))

	out, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Narrative generation failed", zap.Error(err))
		return ""
	}
	return out
}
