package genai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/shared"
	"github.com/skute123/genai-defect-management/internal/infrastructure/chunking"
	"github.com/skute123/genai-defect-management/internal/infrastructure/vectorstore"
)

// DefaultDocumentSearchMin is the cosine floor for knowledge base
// queries. It sits low because short questions against long sections
// score modestly even on good matches.
const DefaultDocumentSearchMin = 0.22

// DocumentService indexes and searches the knowledge base
type DocumentService struct {
	embedder Embedder
	store    *vectorstore.Collection
	chunker  *chunking.Chunker
	kbDir    string
	logger   *zap.Logger
}

// NewDocumentService creates the document service
func NewDocumentService(embedder Embedder, store *vectorstore.Collection, chunker *chunking.Chunker, kbDir string, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		embedder: embedder,
		store:    store,
		chunker:  chunker,
		kbDir:    kbDir,
		logger:   logger,
	}
}

// IndexKnowledgeBase chunks and embeds every markdown file under the
// knowledge base directory
func (s *DocumentService) IndexKnowledgeBase(ctx context.Context) (*IndexReportDTO, error) {
	var files []string
	err := filepath.WalkDir(s.kbDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan knowledge base: %w", err)
	}

	s.store.Clear()
	indexed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		rel, err := filepath.Rel(s.kbDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}

		chunks := s.chunker.ChunkDocument(filepath.ToSlash(rel), string(data))
		if len(chunks) == 0 {
			continue
		}

		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}

		entries := make([]vectorstore.Entry, len(chunks))
		for i, c := range chunks {
			entries[i] = vectorstore.Entry{
				ID:     c.ID,
				Vector: vectors[i],
				Metadata: map[string]string{
					"filename": c.Filename,
					"title":    c.Title,
					"section":  c.Section,
				},
				Text: c.Content,
			}
		}
		s.store.Upsert(entries)
		indexed += len(entries)
	}

	if err := s.store.Save(); err != nil {
		return nil, err
	}
	s.logger.Info("Knowledge base indexed",
		zap.Int("files", len(files)),
		zap.Int("chunks", indexed))
	return &IndexReportDTO{Indexed: indexed, Total: indexed}, nil
}

// Search finds knowledge base passages for a query. Results are
// deduplicated to the best chunk per file. When the vector search
// comes back empty a plain keyword scan answers instead.
func (s *DocumentService) Search(ctx context.Context, query string, topK int, minSimilarity float64) ([]DocumentHitDTO, error) {
	if strings.TrimSpace(query) == "" {
		return nil, shared.NewDomainError("INVALID_SEARCH_TERM", "query is required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	// Over-fetch so per-file dedupe still fills topK
	matches := s.store.Search(vector, topK*4, minSimilarity)
	hits := dedupeByFile(matches, topK)

	if len(hits) == 0 {
		hits = s.keywordFallback(query, topK)
	}
	return hits, nil
}

func dedupeByFile(matches []vectorstore.Match, topK int) []DocumentHitDTO {
	seen := make(map[string]bool)
	var hits []DocumentHitDTO
	for _, m := range matches {
		file := m.Metadata["filename"]
		if seen[file] {
			continue
		}
		seen[file] = true
		hits = append(hits, DocumentHitDTO{
			Filename:   file,
			Title:      m.Metadata["title"],
			Section:    m.Metadata["section"],
			Content:    m.Text,
			Similarity: vectorstore.SimilarityPercent(m.Score),
		})
		if len(hits) == topK {
			break
		}
	}
	return hits
}

// keywordFallback scores chunks by the share of query words they
// contain. Rough, but it keeps search usable when the embedding
// server mis-scores short queries.
func (s *DocumentService) keywordFallback(query string, topK int) []DocumentHitDTO {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	type scored struct {
		hit   DocumentHitDTO
		score float64
	}
	var candidates []scored

	for _, m := range s.store.All() {
		text := strings.ToLower(m.Text)
		found := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				found++
			}
		}
		if found == 0 {
			continue
		}
		score := float64(found) / float64(len(words))
		candidates = append(candidates, scored{
			hit: DocumentHitDTO{
				Filename:   m.Metadata["filename"],
				Title:      m.Metadata["title"],
				Section:    m.Metadata["section"],
				Content:    m.Text,
				Similarity: vectorstore.SimilarityPercent(score),
			},
			score: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]bool)
	var hits []DocumentHitDTO
	for _, c := range candidates {
		if seen[c.hit.Filename] {
			continue
		}
		seen[c.hit.Filename] = true
		hits = append(hits, c.hit)
		if len(hits) == topK {
			break
		}
	}
	return hits
}
