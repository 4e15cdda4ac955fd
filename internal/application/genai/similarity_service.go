package genai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
	"github.com/skute123/genai-defect-management/internal/infrastructure/vectorstore"
)

// Default similarity floors, as cosine scores
const (
	DefaultSimilarDefectMin = 0.5
	DefaultTextSearchMin    = 0.3
	DefaultDocumentMin      = 0.4
	DefaultTopK             = 5
)

// reindexTolerance: skip reindexing when the store already covers this
// share of the database
const reindexTolerance = 0.95

// Embedder turns text into vectors
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// SimilarityService finds semantically similar defects
type SimilarityService struct {
	repo     defect.Repository
	embedder Embedder
	store    *vectorstore.Collection
	logger   *zap.Logger
}

// NewSimilarityService creates the similarity service
func NewSimilarityService(repo defect.Repository, embedder Embedder, store *vectorstore.Collection, logger *zap.Logger) *SimilarityService {
	return &SimilarityService{repo: repo, embedder: embedder, store: store, logger: logger}
}

// IndexDefects embeds every defect from both environments into the
// vector store. Without force, a store already covering 95% of the
// database is left alone.
func (s *SimilarityService) IndexDefects(ctx context.Context, force bool) (*IndexReportDTO, error) {
	var total int64
	for _, env := range defect.Environments() {
		count, err := s.repo.Count(ctx, env)
		if err != nil {
			return nil, err
		}
		total += count
	}

	if !force && total > 0 && float64(s.store.Count()) >= float64(total)*reindexTolerance {
		s.logger.Info("Defect index is current, skipping reindex",
			zap.Int("indexed", s.store.Count()),
			zap.Int64("in_db", total))
		return &IndexReportDTO{Indexed: 0, Skipped: true, Total: int(total)}, nil
	}

	s.store.Clear()
	indexed := 0
	for _, env := range defect.Environments() {
		defects, err := s.repo.FindAllForIndexing(ctx, env)
		if err != nil {
			return nil, err
		}
		if len(defects) == 0 {
			continue
		}

		texts := make([]string, len(defects))
		for i := range defects {
			texts[i] = defects[i].SearchText()
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}

		entries := make([]vectorstore.Entry, len(defects))
		for i := range defects {
			entries[i] = vectorstore.Entry{
				ID:       string(env) + ":" + defects[i].IssueKey,
				Vector:   vectors[i],
				Metadata: defectMetadata(&defects[i]),
				Text:     texts[i],
			}
		}
		s.store.Upsert(entries)
		indexed += len(entries)
	}

	if err := s.store.Save(); err != nil {
		return nil, err
	}
	s.logger.Info("Defect index rebuilt", zap.Int("indexed", indexed))
	return &IndexReportDTO{Indexed: indexed, Total: int(total)}, nil
}

// Lookup resolves an issue key against both environments, ACC first
func (s *SimilarityService) Lookup(ctx context.Context, issueKey string) (*defect.Defect, error) {
	key := defect.NormalizeIssueKey(issueKey)
	for _, env := range defect.Environments() {
		d, err := s.repo.FindByIssueKey(ctx, env, key)
		if err != nil {
			if shared.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		return d, nil
	}
	return nil, shared.ErrNotFound
}

// FindSimilar returns defects semantically close to the given one,
// excluding the defect itself
func (s *SimilarityService) FindSimilar(ctx context.Context, issueKey string, topK int, minSimilarity float64, resolvedOnly bool) ([]SimilarDefectDTO, error) {
	target, err := s.Lookup(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	key := target.IssueKey

	vector, err := s.embedder.Embed(ctx, target.SearchText())
	if err != nil {
		return nil, err
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	// One extra slot because the defect matches itself
	matches := s.store.Search(vector, topK+1, minSimilarity)

	results := make([]SimilarDefectDTO, 0, topK)
	for _, m := range matches {
		if m.Metadata["issue_key"] == key {
			continue
		}
		dto := toSimilarDTO(m)
		if resolvedOnly && !dto.Resolved {
			continue
		}
		results = append(results, dto)
		if len(results) == topK {
			break
		}
	}
	return results, nil
}

// SearchByText finds defects matching a free-text problem description
func (s *SimilarityService) SearchByText(ctx context.Context, text string, topK int, minSimilarity float64) ([]SimilarDefectDTO, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shared.NewDomainError("INVALID_SEARCH_TERM", "search text is required")
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches := s.store.Search(vector, topK, minSimilarity)
	results := make([]SimilarDefectDTO, 0, len(matches))
	for _, m := range matches {
		results = append(results, toSimilarDTO(m))
	}
	return results, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func defectMetadata(d *defect.Defect) map[string]string {
	resolved := "false"
	if d.IsResolved() {
		resolved = "true"
	}
	return map[string]string{
		"issue_key":       d.IssueKey,
		"summary":         truncate(d.Summary, 500),
		"priority":        d.Priority,
		"osf_system":      d.OSFSystem,
		"resolution":      d.Resolution,
		"fix_description": truncate(d.FixDescription, 1000),
		"source":          strings.ToUpper(string(d.Environment)),
		"resolved":        resolved,
	}
}

func toSimilarDTO(m vectorstore.Match) SimilarDefectDTO {
	return SimilarDefectDTO{
		IssueKey:       m.Metadata["issue_key"],
		Summary:        m.Metadata["summary"],
		Priority:       m.Metadata["priority"],
		Resolution:     m.Metadata["resolution"],
		FixDescription: m.Metadata["fix_description"],
		OSFSystem:      m.Metadata["osf_system"],
		Source:         m.Metadata["source"],
		Similarity:     vectorstore.SimilarityPercent(m.Score),
		Resolved:       m.Metadata["resolved"] == "true",
	}
}
