package genai

import (
	"context"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

// EnhancedSearchService combines defect similarity, knowledge base
// search, resolution suggestion and context summarization into one
// assistant response
type EnhancedSearchService struct {
	similarity *SimilarityService
	documents  *DocumentService
	suggester  *ResolutionSuggester
	summarizer *ContextSummarizer
	logger     *zap.Logger
}

// NewEnhancedSearchService wires the composite service
func NewEnhancedSearchService(
	similarity *SimilarityService,
	documents *DocumentService,
	suggester *ResolutionSuggester,
	summarizer *ContextSummarizer,
	logger *zap.Logger,
) *EnhancedSearchService {
	return &EnhancedSearchService{
		similarity: similarity,
		documents:  documents,
		suggester:  suggester,
		summarizer: summarizer,
		logger:     logger,
	}
}

// SearchByIssueKey assembles the full assistant view for a known
// defect
func (s *EnhancedSearchService) SearchByIssueKey(ctx context.Context, issueKey string, topK int) (*EnhancedResultDTO, error) {
	key := defect.NormalizeIssueKey(issueKey)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_ISSUE_KEY", "issue key is required")
	}

	target, err := s.similarity.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	similar, err := s.similarity.FindSimilar(ctx, key, topK, DefaultSimilarDefectMin, false)
	if err != nil {
		return nil, err
	}

	// Documents and narrative work off the defect's own text, the bare
	// key embeds to nothing useful
	return s.assemble(ctx, target.DocumentQuery(), key, similar, topK), nil
}

// SearchByText assembles the assistant view for a free-text problem
// description
func (s *EnhancedSearchService) SearchByText(ctx context.Context, text string, topK int) (*EnhancedResultDTO, error) {
	similar, err := s.similarity.SearchByText(ctx, text, topK, DefaultTextSearchMin)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, text, "", similar, topK), nil
}

func (s *EnhancedSearchService) assemble(ctx context.Context, query, issueKey string, similar []SimilarDefectDTO, topK int) *EnhancedResultDTO {
	docs, err := s.documents.Search(ctx, query, topK, DefaultDocumentMin)
	if err != nil {
		s.logger.Warn("Document search failed during enhanced search", zap.Error(err))
		docs = nil
	}

	result := &EnhancedResultDTO{
		Query:          query,
		IssueKey:       issueKey,
		SimilarDefects: similar,
		Documents:      docs,
	}
	result.Suggestion = s.suggester.Suggest(ctx, query, similar)
	result.Summary = s.summarizer.Summarize(ctx, query, similar, docs)
	return result
}
